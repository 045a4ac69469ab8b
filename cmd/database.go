package cmd

import (
	"database/sql"
	"fmt"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/Layr-Labs/stake-vault/internal/logger"
	"github.com/Layr-Labs/stake-vault/pkg/migrations"
	"github.com/Layr-Labs/stake-vault/pkg/postgres"
	"github.com/Layr-Labs/stake-vault/pkg/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var runDatabaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Create the database if needed and run all migrations",
	Run: func(cmd *cobra.Command, args []string) {
		bindCommandFlags(cmd)
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		_, grm, err := openDatabase(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to open database", zap.Error(err))
		}
		closeDatabase(grm, l)

		l.Sugar().Infow("Database migrated", zap.String("driver", string(cfg.DatabaseConfig.Driver)))
	},
}

// openDatabase connects with the configured driver and applies every pending migration.
func openDatabase(cfg *config.Config, l *zap.Logger) (*sql.DB, *gorm.DB, error) {
	var grm *gorm.DB

	switch cfg.DatabaseConfig.Driver {
	case config.DatabaseDriver_Postgres:
		pgConfig := postgres.PostgresConfigFromDbConfig(&cfg.DatabaseConfig)

		pg, err := postgres.NewPostgres(pgConfig, l)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup postgres connection: %w", err)
		}
		grm, err = postgres.NewGormFromPostgresConnection(pg.Db)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gorm instance: %w", err)
		}
	case config.DatabaseDriver_Sqlite:
		var err error
		grm, err = sqlite.NewGormSqliteFromSqlite(sqlite.NewSqlite(&sqlite.SqliteConfig{
			Path: cfg.DatabaseConfig.SqlitePath,
		}), l)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver '%s'", cfg.DatabaseConfig.Driver)
	}

	db, err := grm.DB()
	if err != nil {
		return nil, nil, err
	}

	migrator := migrations.NewMigrator(db, grm, l)
	if err := migrator.MigrateAll(); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, grm, nil
}

func closeDatabase(grm *gorm.DB, l *zap.Logger) {
	db, err := grm.DB()
	if err != nil {
		return
	}
	if err := db.Close(); err != nil {
		l.Sugar().Warnw("Failed to close database", zap.Error(err))
	}
}
