package postgres

import (
	"testing"

	"github.com/Layr-Labs/stake-vault/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_Postgres(t *testing.T) {
	t.Run("Should build a connection string without ssl by default", func(t *testing.T) {
		connStr, err := connectionString(&PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Username: "vault",
			Password: "secret",
		}, "stake_vault")
		assert.Nil(t, err)
		assert.Equal(t, "host=localhost port=5432 dbname=stake_vault user=vault password=secret sslmode=disable TimeZone=UTC", connStr)
	})
	t.Run("Should include certificates and schema when ssl is enabled", func(t *testing.T) {
		connStr, err := connectionString(&PostgresConfig{
			Host:        "db",
			Port:        5433,
			SchemaName:  "vault",
			SSLMode:     "verify-full",
			SSLRootCert: "/certs/root.pem",
		}, "stake_vault")
		assert.Nil(t, err)
		assert.Contains(t, connStr, "sslmode=verify-full")
		assert.Contains(t, connStr, "sslrootcert=/certs/root.pem")
		assert.NotContains(t, connStr, "sslcert=")
		assert.Contains(t, connStr, "search_path=vault")
	})
	t.Run("Should ignore certificates when ssl is disabled", func(t *testing.T) {
		connStr, err := connectionString(&PostgresConfig{Host: "db", SSLCert: "/certs/client.pem"}, "stake_vault")
		assert.Nil(t, err)
		assert.NotContains(t, connStr, "sslcert")
	})
	t.Run("Should reject unknown ssl modes", func(t *testing.T) {
		_, err := connectionString(&PostgresConfig{Host: "db", SSLMode: "sometimes"}, "stake_vault")
		assert.NotNil(t, err)
	})
	t.Run("Should map the database config", func(t *testing.T) {
		pgCfg := PostgresConfigFromDbConfig(&config.DatabaseConfig{
			Host:   "db",
			Port:   5432,
			User:   "vault",
			DbName: "stake_vault",
		})
		assert.Equal(t, "vault", pgCfg.Username)
		assert.Equal(t, "stake_vault", pgCfg.DbName)
		assert.True(t, pgCfg.CreateDbIfNotExists)
	})
}
