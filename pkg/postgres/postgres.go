package postgres

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultSSLMode = "disable"
	rootDbName     = "postgres"
)

var validSSLModes = []string{"disable", "require", "verify-ca", "verify-full"}

type PostgresConfig struct {
	Host                string
	Port                int
	Username            string
	Password            string
	DbName              string
	CreateDbIfNotExists bool
	SchemaName          string
	SSLMode             string
	SSLCert             string
	SSLKey              string
	SSLRootCert         string
}

type Postgres struct {
	Db *sql.DB
}

func PostgresConfigFromDbConfig(dbCfg *config.DatabaseConfig) *PostgresConfig {
	return &PostgresConfig{
		Host:                dbCfg.Host,
		Port:                dbCfg.Port,
		Username:            dbCfg.User,
		Password:            dbCfg.Password,
		DbName:              dbCfg.DbName,
		CreateDbIfNotExists: true,
		SchemaName:          dbCfg.SchemaName,
		SSLMode:             dbCfg.SSLMode,
		SSLCert:             dbCfg.SSLCert,
		SSLKey:              dbCfg.SSLKey,
		SSLRootCert:         dbCfg.SSLRootCert,
	}
}

// connectionString renders cfg as a libpq key/value DSN for the given database.
func connectionString(cfg *PostgresConfig, dbName string) (string, error) {
	sslMode := defaultSSLMode
	if cfg.SSLMode != "" {
		if !slices.Contains(validSSLModes, cfg.SSLMode) {
			return "", fmt.Errorf("invalid ssl mode '%s', expected one of: %s", cfg.SSLMode, strings.Join(validSSLModes, ", "))
		}
		sslMode = cfg.SSLMode
	}

	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("dbname=%s", dbName),
	}
	if cfg.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode), "TimeZone=UTC")

	if sslMode != defaultSSLMode {
		for key, value := range map[string]string{"sslcert": cfg.SSLCert, "sslkey": cfg.SSLKey, "sslrootcert": cfg.SSLRootCert} {
			if value != "" {
				parts = append(parts, fmt.Sprintf("%s=%s", key, value))
			}
		}
	}
	if cfg.SchemaName != "" {
		parts = append(parts, fmt.Sprintf("search_path=%s", cfg.SchemaName))
	}
	return strings.Join(parts, " "), nil
}

// CreateDatabaseIfNotExists connects to the server's root database and creates
// cfg.DbName when it is missing.
func CreateDatabaseIfNotExists(cfg *PostgresConfig, l *zap.Logger) error {
	dsn, err := connectionString(cfg, rootDbName)
	if err != nil {
		return err
	}
	root, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to the root database: %w", err)
	}
	defer root.Close()

	var exists bool
	if err := root.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1)`, cfg.DbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up database '%s': %w", cfg.DbName, err)
	}
	if exists {
		return nil
	}

	if _, err := root.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(cfg.DbName))); err != nil {
		return fmt.Errorf("failed to create database '%s': %w", cfg.DbName, err)
	}
	l.Sugar().Infow("Created database", zap.String("dbName", cfg.DbName))
	return nil
}

func NewPostgres(cfg *PostgresConfig, l *zap.Logger) (*Postgres, error) {
	if cfg.CreateDbIfNotExists {
		if err := CreateDatabaseIfNotExists(cfg, l); err != nil {
			return nil, err
		}
	}
	dsn, err := connectionString(cfg, cfg.DbName)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return &Postgres{Db: db}, nil
}

func NewGormFromPostgresConnection(pgDb *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pgDb}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}
	return db, nil
}
