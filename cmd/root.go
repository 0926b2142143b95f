package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/config"
	"github.com/pable/go-fives-metrics/internal/logging"
)

var (
	dbPath   string
	cfgPath  string
	logLevel string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fives",
	Short: "Five-a-side match outcome predictor",
	Long: `Import five-a-side match history, inspect player and duo records, and
predict the outcome of a proposed line-up.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command. Ctrl-C cancels the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default from config, ~/.fives/fives.db)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(duosCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadSettings reads the config file and lets flags override it.
func loadSettings(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath == "" {
		dbPath = cfg.Database
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	logger = logging.New(logLevel, cfg.Log.Format)
	logger.WithFields(logrus.Fields{"db": dbPath, "config": cfgPath}).Debug("settings loaded")
	return nil
}

func defaultConfigPath() string {
	return filepath.Join(config.Dir(), "config.yaml")
}
