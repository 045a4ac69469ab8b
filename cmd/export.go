package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/pkg/storage"
	"github.com/Layr-Labs/stake-vault/pkg/storage/gormStore"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stakes or the notification log as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd)
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		_, grm, err := openDatabase(cfg, l)
		if err != nil {
			return err
		}
		defer closeDatabase(grm, l)

		var out io.Writer = cmd.OutOrStdout()
		if path := viper.GetString(config.ExportOutputFile); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		table := viper.GetString(config.ExportTable)
		count, err := exportTable(gormStore.NewGormVaultStore(grm, l), table, out)
		if err != nil {
			return err
		}
		l.Sugar().Infow("Export complete", zap.String("table", table), zap.Int("rows", count))
		return nil
	},
}

func exportTable(store storage.VaultStore, table string, out io.Writer) (int, error) {
	switch table {
	case "stakes":
		stakes, err := store.ListStakes()
		if err != nil {
			return 0, err
		}
		return len(stakes), gocsv.Marshal(stakes, out)
	case "events":
		events, err := store.ListEvents(nil)
		if err != nil {
			return 0, err
		}
		return len(events), gocsv.Marshal(events, out)
	default:
		return 0, fmt.Errorf("unknown export table '%s' (expected \"stakes\" or \"events\")", table)
	}
}
