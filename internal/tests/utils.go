package tests

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/stake-vault/pkg/migrations"
	"github.com/Layr-Labs/stake-vault/pkg/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func GenerateTestDbName() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("test_%s", strings.ReplaceAll(id.String(), "-", "")), nil
}

// GetInMemorySqliteDatabaseConnection returns a migrated, private in-memory database.
func GetInMemorySqliteDatabaseConnection(l *zap.Logger) (*gorm.DB, error) {
	dbName, err := GenerateTestDbName()
	if err != nil {
		return nil, err
	}
	grm, err := sqlite.NewGormSqliteFromSqlite(sqlite.NewSqlite(&sqlite.SqliteConfig{
		Path:     dbName,
		InMemory: true,
	}), l)
	if err != nil {
		return nil, err
	}

	sqlDb, err := grm.DB()
	if err != nil {
		return nil, err
	}
	if err := migrations.NewMigrator(sqlDb, grm, l).MigrateAll(); err != nil {
		return nil, err
	}
	return grm, nil
}
