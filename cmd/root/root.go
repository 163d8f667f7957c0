// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"contajur/ledger/internal/config"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Config string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Viper holds the flag bindings consulted when the configuration loads
	Viper = viper.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "contajur",
		Short: "Import monthly accounting spreadsheets into a profit-sharing ledger.",
		Long: `contajur imports the monthly report exported by the accounting system,
classifies every line item against the category taxonomy, splits the net profit
between the partners and keeps one ledger per month in a local database.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to contajur!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := Initialize(); err != nil {
				Log.Fatalf("Failed to initialize: %v", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Shutdown()
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
	appConfig    *config.Config
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringVar(&SharedFlags.Config, "config", "", "Configuration file (default: search config.yaml)")
		flags.StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format (text, json)")
		flags.String("db", "", "Ledger database path")
		flags.String("taxonomy", "", "Category taxonomy file")
		flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
		flags.String("log-format", "", "Log format (text, json)")
		flags.String("csv-delimiter", "", "CSV delimiter for uploads and exports")

		for key, name := range map[string]string{
			"database.path": "db",
			"taxonomy.file": "taxonomy",
			"log.level":     "log-level",
			"log.format":    "log-format",
			"csv.delimiter": "csv-delimiter",
		} {
			if err := BindFlag(key, flags.Lookup(name)); err != nil {
				Log.Fatalf("Failed to bind flag %s: %v", name, err)
			}
		}
	})
}

// BindFlag makes a command flag override the configuration key when set.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for configuration key %s", key)
	}
	return Viper.BindPFlag(key, flag)
}

// Initialize loads the configuration and builds the application container.
func Initialize() error {
	config.LoadEnv()

	cfg, err := config.Load(Viper, SharedFlags.Config)
	if err != nil {
		return err
	}
	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	Shutdown()
	appConfig = cfg
	appContainer = c
	return nil
}

// Shutdown closes the container opened by Initialize.
func Shutdown() {
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		Log.Warnf("Failed to close container: %v", err)
	}
	appContainer = nil
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return appConfig
}

// GetLogrusAdapter returns the shared logger behind the logging interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
