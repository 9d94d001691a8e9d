package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"saba/internal/payroll"
	"saba/internal/store"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage
	DataBackend  string
	DataDir      string
	SQLiteDBPath string
	LockTimeout  time.Duration
	Files        store.Paths
	CatalogFile  string

	// Payroll defaults, overridable per run
	PayrollHourlyRate       decimal.Decimal
	PayrollOvertimeRate     decimal.Decimal
	PayrollContributionRate decimal.Decimal

	// Scheduled low-stock check, standard 5-field cron spec. Empty disables it.
	LowStockCron string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPPrefetch int

	// Google Sheets mirror
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	validBackends   = []string{"file", "memory", "sqlite"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json", "pretty"}
)

func Load() *Config {
	dataDir := getEnv("DATA_DIR", "./data")
	files := store.DefaultPaths(dataDir)
	files.Sales = getEnv("SALES_FILE", files.Sales)
	files.Purchases = getEnv("PURCHASES_FILE", files.Purchases)
	files.Treasury = getEnv("TREASURY_FILE", files.Treasury)
	files.Stock = getEnv("STOCK_FILE", files.Stock)
	files.Recipes = getEnv("RECIPES_FILE", files.Recipes)
	files.Employees = getEnv("EMPLOYEES_FILE", files.Employees)
	files.Schedule = getEnv("SCHEDULE_FILE", files.Schedule)
	files.BankBalances = getEnv("BANK_FILE", files.BankBalances)
	files.Dishes = getEnv("DISHES_FILE", files.Dishes)

	defaults := payroll.DefaultRates()
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		DataDir:      dataDir,
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", filepath.Join(dataDir, "saba.db")),
		LockTimeout:  getEnvDuration("LOCK_TIMEOUT", 5*time.Second),
		Files:        files,
		CatalogFile:  getEnv("CATALOG_FILE", ""),

		PayrollHourlyRate:       getEnvDecimal("PAYROLL_HOURLY_RATE", defaults.Hourly),
		PayrollOvertimeRate:     getEnvDecimal("PAYROLL_OVERTIME_RATE", defaults.Overtime),
		PayrollContributionRate: getEnvDecimal("PAYROLL_CONTRIBUTION_RATE", defaults.ContributionRate),

		LowStockCron: getEnv("LOW_STOCK_CRON", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "saba"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sheets_mirror"),
		AMQPPrefetch: getEnvInt("AMQP_PREFETCH", 10),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	return cfg
}

// PayrollRates returns the configured payroll defaults.
func (c *Config) PayrollRates() payroll.Rates {
	return payroll.Rates{
		Hourly:           c.PayrollHourlyRate,
		Overtime:         c.PayrollOvertimeRate,
		ContributionRate: c.PayrollContributionRate,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	}

	if c.LockTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid lock timeout %v: must not be negative", c.LockTimeout))
	} else if c.LockTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid lock timeout %v: must be at most 1 minute", c.LockTimeout))
	}

	if c.CatalogFile != "" {
		if _, err := os.Stat(c.CatalogFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("catalog file does not exist: %s", c.CatalogFile))
		}
	}

	if err := c.PayrollRates().Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid payroll defaults: %v", err))
	}

	if c.LowStockCron != "" {
		if _, err := cron.ParseStandard(c.LowStockCron); err != nil {
			errors = append(errors, fmt.Sprintf("invalid LOW_STOCK_CRON '%s': %v", c.LowStockCron, err))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPPrefetch < 1 || c.AMQPPrefetch > 1000 {
			errors = append(errors, fmt.Sprintf("invalid AMQP prefetch %d: must be between 1 and 1000", c.AMQPPrefetch))
		}
	}

	// Google credentials are only checked when a spreadsheet is configured
	if c.GoogleSpreadsheetID != "" {
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasFile && c.GoogleServiceAccountJSON == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided with GOOGLE_SPREADSHEET_ID")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the extra settings the sheets mirror worker needs.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the worker")
	}
	if c.GoogleSpreadsheetID == "" {
		errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for the worker")
	}
	if c.DataBackend == "memory" {
		errors = append(errors, "DATA_BACKEND=memory cannot be shared with the worker: use file or sqlite")
	}
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return c.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ".")); err == nil {
			return d
		}
	}
	return defaultValue
}
