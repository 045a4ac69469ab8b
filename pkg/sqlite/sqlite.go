package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SqliteConfig struct {
	Path string

	// InMemory opens a private shared-cache database named after Path.
	InMemory bool
}

func (c *SqliteConfig) dsn() string {
	if c.InMemory {
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Path)
	}
	return c.Path
}

func NewSqlite(cfg *SqliteConfig) gorm.Dialector {
	return sqlite.Open(cfg.dsn())
}

func NewGormSqliteFromSqlite(dialector gorm.Dialector, l *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// in-memory databases and open transactions must share one connection
	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetMaxOpenConns(1)

	pragmas := []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA busy_timeout = 5000;`,
	}

	for _, pragma := range pragmas {
		res := db.Exec(pragma)
		if res.Error != nil {
			l.Sugar().Errorw("Failed to apply sqlite pragma", zap.String("pragma", pragma), zap.Error(res.Error))
			return nil, res.Error
		}
	}
	return db, nil
}
