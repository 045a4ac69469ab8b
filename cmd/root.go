package cmd

import (
	"os"
	"strings"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "stake-vault",
	Short: "A token staking vault paying time-proportional rewards",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)

	rootCmd.PersistentFlags().String(config.DatabaseDriverKey, string(config.DatabaseDriver_Sqlite), `Database driver ("sqlite" or "postgres")`)
	rootCmd.PersistentFlags().String(config.DatabaseSqlitePath, "./stake-vault.db", `Path to the sqlite database file`)
	rootCmd.PersistentFlags().String(config.DatabaseHost, "localhost", `PostgreSQL host`)
	rootCmd.PersistentFlags().Int(config.DatabasePort, 5432, `PostgreSQL port`)
	rootCmd.PersistentFlags().String(config.DatabaseUser, "stake_vault", `PostgreSQL username`)
	rootCmd.PersistentFlags().String(config.DatabasePassword, "", `PostgreSQL password`)
	rootCmd.PersistentFlags().String(config.DatabaseDbName, "stake_vault", `PostgreSQL database name`)
	rootCmd.PersistentFlags().String(config.DatabaseSchemaName, "", `PostgreSQL schema name (default "public")`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLMode, "disable", `PostgreSQL SSL mode`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLCert, "", `PostgreSQL SSL client certificate`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLKey, "", `PostgreSQL SSL client key`)
	rootCmd.PersistentFlags().String(config.DatabaseSSLRootCert, "", `PostgreSQL SSL root certificate`)

	rootCmd.PersistentFlags().String(config.VaultTokenAddress, "", `Address of the staked token`)
	rootCmd.PersistentFlags().String(config.VaultOwnerAddress, "", `Address allowed to start staking`)
	rootCmd.PersistentFlags().String(config.VaultAddress, "", `Custody address of the vault (derived from the owner when empty)`)
	rootCmd.PersistentFlags().Uint64(config.VaultRateNumerator, 9, `Annual reward rate numerator`)
	rootCmd.PersistentFlags().Uint64(config.VaultRateDenominator, 100, `Annual reward rate denominator`)
	rootCmd.PersistentFlags().Uint64(config.VaultLockupDays, 90, `Days after the staking start before withdrawals unlock`)
	rootCmd.PersistentFlags().Uint64(config.VaultStakingDays, 90, `Days rewards accrue for after the staking start (0 = no end)`)

	rootCmd.PersistentFlags().String(config.LedgerDataDir, "./ledger", `Directory of the token ledger database`)
	rootCmd.PersistentFlags().String(config.LedgerSymbol, "STK", `Token symbol`)
	rootCmd.PersistentFlags().Int32(config.LedgerDecimals, 18, `Token decimals`)
	rootCmd.PersistentFlags().String(config.LedgerInitialSupply, "0", `Whole tokens minted to the owner when the ledger is empty`)

	rootCmd.PersistentFlags().Int(config.RpcHttpPort, 7101, `http rpc port`)
	rootCmd.PersistentFlags().StringSlice(config.RpcCorsOrigins, nil, `Allowed CORS origins (default all)`)

	rootCmd.PersistentFlags().Bool(config.DataDogStatsdEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().String(config.DataDogStatsdUrl, "", `e.g. "localhost:8125"`)
	rootCmd.PersistentFlags().Float64(config.DataDogStatsdSampleRate, 1.0, `The sample rate to use for statsd metrics`)

	rootCmd.PersistentFlags().Bool(config.PrometheusEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().Int(config.PrometheusPort, 2112, `The port to run the prometheus server on`)

	// setup sub commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runVersionCmd)
	rootCmd.AddCommand(runDatabaseCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(exportCmd)

	// bind any subcommand flags
	quoteCmd.PersistentFlags().String(config.QuoteAmount, "", `Whole token principal to quote (required)`)
	quoteCmd.PersistentFlags().Uint64(config.QuoteElapsedDays, 0, `Days of accrual (defaults to the staking duration)`)

	exportCmd.PersistentFlags().String(config.ExportTable, "stakes", `What to export ("stakes" or "events")`)
	exportCmd.PersistentFlags().String(config.ExportOutputFile, "", `Path of the CSV file to write (default stdout)`)

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}

// bindCommandFlags binds a sub command's own flags the same way the root flags are bound.
func bindCommandFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		if err := viper.BindPFlag(key, f); err != nil {
			cmd.PrintErrf("Failed to bind flag '%s' - %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(key); err != nil {
			cmd.PrintErrf("Failed to bind env '%s' - %+v\n", f.Name, err)
		}
	})
}
