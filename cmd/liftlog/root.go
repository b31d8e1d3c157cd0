// ABOUTME: Root Cobra command for liftlog CLI.
// ABOUTME: Loads config and opens the record store via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/store"
)

var (
	cfg *config.Config
	st  store.Store

	flagConfig   string
	flagBackend  string
	flagDataDir  string
	flagOwner    string
	flagLogLevel string
)

// skipStore marks commands that run without opening the record store.
var skipStore = map[string]string{"store": "none"}

var builtins = map[string]bool{"help": true, "completion": true}

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Strength training log",
	Long: `Liftlog records strength workouts and reusable workout templates.

A workout holds exercises in order, and each exercise holds its sets in
order. Saving a workout again replaces its exercises and sets, so a client
can retry a save without creating duplicates.

QUICK START:

  $ liftlog workout finish legday.json     # Save a workout from JSON
  $ liftlog workout list                   # Most recent first
  $ liftlog workout show <id>              # Exercises and sets
  $ liftlog history squat                  # Every squat you logged
  $ liftlog template save fullbody.json    # Save a template

SERVERS:

  $ liftlog serve                          # HTTP API on :8080
  $ liftlog mcp                            # MCP server over stdio

STORAGE:

  sqlite (default)  ~/.local/share/liftlog/liftlog.db
  postgres          database_url / LIFTLOG_DATABASE_URL
  badger            ~/.local/share/liftlog/badger
  charm             Charm Cloud KV, synced across devices
  memory            nothing persisted

Config lives at ~/.config/liftlog/config.json; every key can be
overridden with a LIFTLOG_* environment variable or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		logger.Init(cfg.LogLevel, cfg.LogPretty)

		if builtins[cmd.Name()] || cmd.Annotations["store"] == "none" {
			return nil
		}

		var err error
		st, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func closeStore() error {
	if st == nil {
		return nil
	}
	err := st.Close()
	st = nil
	return err
}

// loadConfig reads the config file and lets command-line flags win over it.
func loadConfig() error {
	var err error
	cfg, err = config.LoadFrom(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagOwner != "" {
		cfg.Owner = flagOwner
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return nil
}

// Execute runs the root command. Cobra skips PersistentPostRunE when RunE
// fails, so the store is closed here as well.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeStore(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/liftlog/config.json)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, postgres, badger, charm, memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for sqlite and badger")
	rootCmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "owner id used for CLI and MCP writes")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}
