package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	IsProduction     bool
	BaseCurrency     string // ledger base currency for FX resolution
	BalanceTolerance string // decimal string, e.g. "0.01"
	MigrationsPath   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BASE_CURRENCY", "MYR")
	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.BalanceTolerance = viper.GetString("BALANCE_TOLERANCE")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	return cfg, nil
}
