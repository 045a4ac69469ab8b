package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "STAKE_VAULT"

type DatabaseDriver string

const (
	DatabaseDriver_Sqlite   DatabaseDriver = "sqlite"
	DatabaseDriver_Postgres DatabaseDriver = "postgres"
)

type DatabaseConfig struct {
	Driver      DatabaseDriver
	Host        string
	Port        int
	User        string
	Password    string
	DbName      string
	SchemaName  string
	SSLMode     string
	SSLCert     string
	SSLKey      string
	SSLRootCert string
	SqlitePath  string
}

type VaultConfig struct {
	TokenAddress    string
	OwnerAddress    string
	VaultAddress    string
	RateNumerator   uint64
	RateDenominator uint64
	LockupDays      uint64
	StakingDays     uint64
}

type LedgerConfig struct {
	DataDir       string
	Symbol        string
	Decimals      int32
	InitialSupply string
}

type RpcConfig struct {
	HttpPort    int
	CorsOrigins []string
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type StatsdConfig struct {
	Enabled    bool
	Url        string
	SampleRate float64
}

type DataDogConfig struct {
	StatsdConfig StatsdConfig
}

type Config struct {
	Debug            bool
	DatabaseConfig   DatabaseConfig
	VaultConfig      VaultConfig
	LedgerConfig     LedgerConfig
	RpcConfig        RpcConfig
	PrometheusConfig PrometheusConfig
	DataDogConfig    DataDogConfig
}

func normalizeFlagName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// KebabToSnakeCase turns a flag name such as "database.db-name" into the viper key "database.db_name".
func KebabToSnakeCase(str string) string {
	return normalizeFlagName(str)
}

var (
	Debug = "debug"

	DatabaseDriverKey   = "database.driver"
	DatabaseHost        = "database.host"
	DatabasePort        = "database.port"
	DatabaseUser        = "database.user"
	DatabasePassword    = "database.password"
	DatabaseDbName      = "database.db_name"
	DatabaseSchemaName  = "database.schema_name"
	DatabaseSSLMode     = "database.ssl_mode"
	DatabaseSSLCert     = "database.ssl_cert"
	DatabaseSSLKey      = "database.ssl_key"
	DatabaseSSLRootCert = "database.ssl_root_cert"
	DatabaseSqlitePath  = "database.sqlite_path"

	VaultTokenAddress    = "vault.token_address"
	VaultOwnerAddress    = "vault.owner_address"
	VaultAddress         = "vault.address"
	VaultRateNumerator   = "vault.rate_numerator"
	VaultRateDenominator = "vault.rate_denominator"
	VaultLockupDays      = "vault.lockup_days"
	VaultStakingDays     = "vault.staking_days"

	LedgerDataDir       = "ledger.data_dir"
	LedgerSymbol        = "ledger.symbol"
	LedgerDecimals      = "ledger.decimals"
	LedgerInitialSupply = "ledger.initial_supply"

	RpcHttpPort    = "rpc.http_port"
	RpcCorsOrigins = "rpc.cors_origins"

	PrometheusEnabled = "prometheus.enabled"
	PrometheusPort    = "prometheus.port"

	DataDogStatsdEnabled    = "datadog.statsd.enabled"
	DataDogStatsdUrl        = "datadog.statsd.url"
	DataDogStatsdSampleRate = "datadog.statsd.sample_rate"

	ExportOutputFile = "export.output_file"
	ExportTable      = "export.table"

	QuoteAmount      = "quote.amount"
	QuoteElapsedDays = "quote.elapsed_days"
)

func NewConfig() *Config {
	return &Config{
		Debug: viper.GetBool(normalizeFlagName(Debug)),

		DatabaseConfig: DatabaseConfig{
			Driver:      DatabaseDriver(viper.GetString(normalizeFlagName(DatabaseDriverKey))),
			Host:        viper.GetString(normalizeFlagName(DatabaseHost)),
			Port:        viper.GetInt(normalizeFlagName(DatabasePort)),
			User:        viper.GetString(normalizeFlagName(DatabaseUser)),
			Password:    viper.GetString(normalizeFlagName(DatabasePassword)),
			DbName:      viper.GetString(normalizeFlagName(DatabaseDbName)),
			SchemaName:  viper.GetString(normalizeFlagName(DatabaseSchemaName)),
			SSLMode:     viper.GetString(normalizeFlagName(DatabaseSSLMode)),
			SSLCert:     viper.GetString(normalizeFlagName(DatabaseSSLCert)),
			SSLKey:      viper.GetString(normalizeFlagName(DatabaseSSLKey)),
			SSLRootCert: viper.GetString(normalizeFlagName(DatabaseSSLRootCert)),
			SqlitePath:  viper.GetString(normalizeFlagName(DatabaseSqlitePath)),
		},

		VaultConfig: VaultConfig{
			TokenAddress:    viper.GetString(normalizeFlagName(VaultTokenAddress)),
			OwnerAddress:    viper.GetString(normalizeFlagName(VaultOwnerAddress)),
			VaultAddress:    viper.GetString(normalizeFlagName(VaultAddress)),
			RateNumerator:   viper.GetUint64(normalizeFlagName(VaultRateNumerator)),
			RateDenominator: viper.GetUint64(normalizeFlagName(VaultRateDenominator)),
			LockupDays:      viper.GetUint64(normalizeFlagName(VaultLockupDays)),
			StakingDays:     viper.GetUint64(normalizeFlagName(VaultStakingDays)),
		},

		LedgerConfig: LedgerConfig{
			DataDir:       viper.GetString(normalizeFlagName(LedgerDataDir)),
			Symbol:        viper.GetString(normalizeFlagName(LedgerSymbol)),
			Decimals:      viper.GetInt32(normalizeFlagName(LedgerDecimals)),
			InitialSupply: viper.GetString(normalizeFlagName(LedgerInitialSupply)),
		},

		RpcConfig: RpcConfig{
			HttpPort:    viper.GetInt(normalizeFlagName(RpcHttpPort)),
			CorsOrigins: viper.GetStringSlice(normalizeFlagName(RpcCorsOrigins)),
		},

		PrometheusConfig: PrometheusConfig{
			Enabled: viper.GetBool(normalizeFlagName(PrometheusEnabled)),
			Port:    viper.GetInt(normalizeFlagName(PrometheusPort)),
		},

		DataDogConfig: DataDogConfig{
			StatsdConfig: StatsdConfig{
				Enabled:    viper.GetBool(normalizeFlagName(DataDogStatsdEnabled)),
				Url:        viper.GetString(normalizeFlagName(DataDogStatsdUrl)),
				SampleRate: viper.GetFloat64(normalizeFlagName(DataDogStatsdSampleRate)),
			},
		},
	}
}

// Validate checks the settings a vault cannot be constructed without.
func (c *Config) Validate() error {
	vc := c.VaultConfig
	if !common.IsHexAddress(vc.TokenAddress) {
		return fmt.Errorf("invalid token address '%s'", vc.TokenAddress)
	}
	if !common.IsHexAddress(vc.OwnerAddress) {
		return fmt.Errorf("invalid owner address '%s'", vc.OwnerAddress)
	}
	if vc.VaultAddress != "" && !common.IsHexAddress(vc.VaultAddress) {
		return fmt.Errorf("invalid vault address '%s'", vc.VaultAddress)
	}
	if vc.RateDenominator == 0 {
		return errors.New("rate denominator must be greater than 0")
	}

	switch c.DatabaseConfig.Driver {
	case DatabaseDriver_Sqlite:
		if c.DatabaseConfig.SqlitePath == "" {
			return errors.New("sqlite path is required when using the sqlite driver")
		}
	case DatabaseDriver_Postgres:
		if c.DatabaseConfig.Host == "" || c.DatabaseConfig.DbName == "" {
			return errors.New("postgres host and database name are required")
		}
	default:
		return fmt.Errorf("unsupported database driver '%s'", c.DatabaseConfig.Driver)
	}
	return nil
}

func (c *Config) GetTokenAddress() common.Address {
	return common.HexToAddress(c.VaultConfig.TokenAddress)
}

func (c *Config) GetOwnerAddress() common.Address {
	return common.HexToAddress(c.VaultConfig.OwnerAddress)
}
