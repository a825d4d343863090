package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver         string
	DatabaseURL      string
	SQLitePath       string
	APIPort          string
	AmountEpsilon    domain.Amount
	DateWindowDays   int
	NearMatchPercent int
	Materiality      domain.Amount
	BalanceTolerance domain.Amount
	LogLevel         zerolog.Level
	LogFormat        string
}

func New() (*Config, error) {
	cfg := &Config{
		DBDriver:         getEnv("DB_DRIVER", DriverSQLite),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getEnv("SQLITE_PATH", "reconciliation.db"),
		APIPort:          getEnv("API_PORT", "8080"),
		DateWindowDays:   3,
		NearMatchPercent: 5,
		Materiality:      1,
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("invalid value for DB_DRIVER: expected sqlite or postgres, got '%s'", cfg.DBDriver)
	}

	var err error
	cfg.AmountEpsilon, err = getEnvAsAmount("AMOUNT_EPSILON", cfg.AmountEpsilon)
	if err != nil {
		return nil, err
	}

	cfg.DateWindowDays, err = getEnvAsInt("DATE_WINDOW_DAYS", cfg.DateWindowDays)
	if err != nil {
		return nil, err
	}

	cfg.NearMatchPercent, err = getEnvAsInt("NEAR_MATCH_PERCENT", cfg.NearMatchPercent)
	if err != nil {
		return nil, err
	}

	cfg.Materiality, err = getEnvAsAmount("MATERIALITY", cfg.Materiality)
	if err != nil {
		return nil, err
	}

	cfg.BalanceTolerance, err = getEnvAsAmount("BALANCE_TOLERANCE", cfg.BalanceTolerance)
	if err != nil {
		return nil, err
	}

	cfg.LogLevel, err = zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid value for LOG_LEVEL: %w", err)
	}

	if err := cfg.Settings().Tolerance.Validate(); err != nil {
		return nil, err
	}
	if cfg.Materiality < 0 {
		return nil, fmt.Errorf("%w: MATERIALITY must not be negative", domain.ErrInvalidTolerance)
	}
	if cfg.BalanceTolerance < 0 {
		return nil, fmt.Errorf("%w: BALANCE_TOLERANCE must not be negative", domain.ErrInvalidTolerance)
	}

	return cfg, nil
}

// Settings converts the configuration into usecase settings.
func (c *Config) Settings() usecase.Settings {
	return usecase.Settings{
		Tolerance: domain.Tolerance{
			AmountEpsilon:    c.AmountEpsilon,
			DateWindowDays:   c.DateWindowDays,
			NearMatchPercent: c.NearMatchPercent,
		},
		Materiality:      c.Materiality,
		BalanceTolerance: c.BalanceTolerance,
	}
}

// Logger builds the root logger. LOG_FORMAT=console gives human readable output.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	if strings.EqualFold(c.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(c.LogLevel).With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}

func getEnvAsAmount(key string, defaultValue domain.Amount) (domain.Amount, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := domain.ParseAmount(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an amount, got '%s'", key, valueStr)
	}

	return value, nil
}
