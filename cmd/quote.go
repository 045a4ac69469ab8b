package cmd

import (
	"fmt"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/pkg/rewardEngine"
	"github.com/Layr-Labs/stake-vault/pkg/types/numbers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote the reward a principal earns at the configured rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd)
		cfg := config.NewConfig()

		amount := viper.GetString(config.QuoteAmount)
		if amount == "" {
			return fmt.Errorf("--%s is required", config.QuoteAmount)
		}
		principal, err := numbers.ParseUnits(amount, cfg.LedgerConfig.Decimals)
		if err != nil {
			return err
		}

		rate := rewardEngine.Rate{Numerator: cfg.VaultConfig.RateNumerator, Denominator: cfg.VaultConfig.RateDenominator}
		if err := rate.Validate(); err != nil {
			return err
		}

		days := viper.GetUint64(config.QuoteElapsedDays)
		if days == 0 {
			days = cfg.VaultConfig.StakingDays
		}
		elapsed := days * 24 * 60 * 60

		reward := rewardEngine.Quote(principal, rate, elapsed)
		fmt.Fprintf(cmd.OutOrStdout(), "Principal: %s\nRate: %d/%d per year\nDays: %d\nReward: %s (%s base units)\n",
			numbers.FormatUnits(principal, cfg.LedgerConfig.Decimals),
			rate.Numerator, rate.Denominator,
			days,
			numbers.FormatUnits(reward, cfg.LedgerConfig.Decimals),
			reward.String(),
		)
		return nil
	},
}
