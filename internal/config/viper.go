// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CONTAJUR_DATABASE_PATH.
const EnvPrefix = "CONTAJUR"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Taxonomy struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"taxonomy" yaml:"taxonomy"`

	Layout struct {
		Strategy string `mapstructure:"strategy" yaml:"strategy"`
		Sheet    string `mapstructure:"sheet" yaml:"sheet"`
		Marker   struct {
			Column            string   `mapstructure:"column" yaml:"column"`
			ValueColumns      []string `mapstructure:"value_columns" yaml:"value_columns"`
			RevenueLabel      string   `mapstructure:"revenue_label" yaml:"revenue_label"`
			ExpenseLabel      string   `mapstructure:"expense_label" yaml:"expense_label"`
			HeaderRow         int      `mapstructure:"header_row" yaml:"header_row"`
			DescriptionHeader string   `mapstructure:"description_header" yaml:"description_header"`
			TotalHeader       string   `mapstructure:"total_header" yaml:"total_header"`
		} `mapstructure:"marker" yaml:"marker"`
		Fixed struct {
			RevenueCell       string `mapstructure:"revenue_cell" yaml:"revenue_cell"`
			ExpenseCell       string `mapstructure:"expense_cell" yaml:"expense_cell"`
			DescriptionColumn string `mapstructure:"description_column" yaml:"description_column"`
			TotalColumn       string `mapstructure:"total_column" yaml:"total_column"`
			FirstItemRow      int    `mapstructure:"first_item_row" yaml:"first_item_row"`
			LastItemRow       int    `mapstructure:"last_item_row" yaml:"last_item_row"`
		} `mapstructure:"fixed" yaml:"fixed"`
	} `mapstructure:"layout" yaml:"layout"`

	Reconcile struct {
		SubtractWithdrawals bool `mapstructure:"subtract_withdrawals" yaml:"subtract_withdrawals"`
		AbsoluteAmounts     bool `mapstructure:"absolute_amounts" yaml:"absolute_amounts"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	Classification struct {
		ParallelThreshold int `mapstructure:"parallel_threshold" yaml:"parallel_threshold"`
		Workers           int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"classification" yaml:"classification"`

	Report struct {
		MinimumWage string `mapstructure:"minimum_wage" yaml:"minimum_wage"`
		TopN        int    `mapstructure:"top_n" yaml:"top_n"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load(viper.New(), "")
}

// Load reads the configuration into v. When configFile is empty the usual
// locations are searched; a missing file is not an error. Flags bound to v
// before the call take precedence over file and environment values.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.contajur")
		v.AddConfigPath(".contajur")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("database.path", "database/contajur.db")
	v.SetDefault("taxonomy.file", "categories.yaml")

	v.SetDefault("layout.strategy", "marker")
	v.SetDefault("layout.sheet", "Página 1")
	v.SetDefault("layout.marker.column", "K")
	v.SetDefault("layout.marker.value_columns", []string{"L", "M"})
	v.SetDefault("layout.marker.revenue_label", "Receitas:")
	v.SetDefault("layout.marker.expense_label", "Despesas:")
	v.SetDefault("layout.marker.header_row", 2)
	v.SetDefault("layout.marker.description_header", "Descrição")
	v.SetDefault("layout.marker.total_header", "Total")
	v.SetDefault("layout.fixed.revenue_cell", "")
	v.SetDefault("layout.fixed.expense_cell", "")
	v.SetDefault("layout.fixed.description_column", "A")
	v.SetDefault("layout.fixed.total_column", "B")
	v.SetDefault("layout.fixed.first_item_row", 3)
	v.SetDefault("layout.fixed.last_item_row", 0)

	v.SetDefault("reconcile.subtract_withdrawals", true)
	v.SetDefault("reconcile.absolute_amounts", true)

	v.SetDefault("classification.parallel_threshold", 100)
	v.SetDefault("classification.workers", 0)

	v.SetDefault("report.minimum_wage", "1518.00")
	v.SetDefault("report.top_n", 10)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	switch strings.ToLower(config.Layout.Strategy) {
	case "marker":
		if config.Layout.Marker.HeaderRow < 1 {
			return fmt.Errorf("layout.marker.header_row must be at least 1, got: %d", config.Layout.Marker.HeaderRow)
		}
		if len(config.Layout.Marker.ValueColumns) == 0 {
			return fmt.Errorf("layout.marker.value_columns must list at least one column")
		}
	case "fixed":
		if config.Layout.Fixed.RevenueCell == "" || config.Layout.Fixed.ExpenseCell == "" {
			return fmt.Errorf("layout.fixed.revenue_cell and layout.fixed.expense_cell are required by the fixed strategy")
		}
		if config.Layout.Fixed.FirstItemRow < 1 {
			return fmt.Errorf("layout.fixed.first_item_row must be at least 1, got: %d", config.Layout.Fixed.FirstItemRow)
		}
	default:
		return fmt.Errorf("invalid layout strategy: %s (must be 'marker' or 'fixed')", config.Layout.Strategy)
	}

	wage, err := decimal.NewFromString(config.Report.MinimumWage)
	if err != nil || !wage.IsPositive() {
		return fmt.Errorf("report.minimum_wage must be a positive decimal, got: %s", config.Report.MinimumWage)
	}
	if config.Report.TopN < 1 {
		return fmt.Errorf("report.top_n must be at least 1, got: %d", config.Report.TopN)
	}

	if config.Classification.Workers < 0 {
		return fmt.Errorf("classification.workers must not be negative, got: %d", config.Classification.Workers)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// DelimiterRune returns the configured CSV delimiter.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}
