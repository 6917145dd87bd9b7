// Command manse computes Four Pillars charts and maintains almanac data from
// the command line.
//
// Usage:
//
//	manse chart "1987-02-13 14:30" --gender M --seed manses.csv.xz
//	manse import manses.csv.xz
//	manse verify manses.csv.xz
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kimtaewoo9/mansereok/infrastructure/config"
)

var (
	// Global flags
	verbose    bool
	configFile string
	seedFile   string
	backend    string
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "manse",
	Short:        "Four Pillars chart engine",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if configFile != "" {
			os.Setenv("CONFIG_FILE", configFile)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "seed file for the memory backend (overrides ALMANAC_SEED_FILE)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "almanac backend (overrides ALMANAC_BACKEND)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")

	rootCmd.AddCommand(chartCmd, importCmd, verifyCmd)
}

// loadConfig reads the service configuration with the command-line
// overrides applied.
func loadConfig() (*config.Config, error) {
	return config.LoadConfigWith(func(c *config.Config) {
		if backend != "" {
			c.Almanac.Backend = backend
		}
		if seedFile != "" {
			c.Almanac.SeedFile = seedFile
		}
		c.LogLevel = "warn"
		if verbose {
			c.LogLevel = "debug"
		}
		c.CacheTTL = 0
		c.EnableEvents = false
		c.EnableTracing = false
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
