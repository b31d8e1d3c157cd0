// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Copies every table from the configured backend to another one.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/store"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every workout, exercise, set and template from the configured
backend to another one.

USAGE:

  liftlog migrate --to badger --dry-run   # Preview what would be copied
  liftlog migrate --to postgres           # Copy into Postgres

The destination should be empty; duplicate ids fail the migration. Local
destinations that already hold data are refused unless --force is given.
Afterwards point "backend" in your config at the new store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", migrateTo)
		}
		out := cmd.OutOrStdout()

		if migrateDryRun {
			fmt.Fprintln(out, color.YellowString("Dry run mode - no changes will be made"))
			for _, t := range store.Tables {
				rows, err := st.Select(cmd.Context(), t.Name)
				if err != nil {
					return fmt.Errorf("count %s: %w", t.Name, err)
				}
				fmt.Fprintf(out, "  %s: %d\n", padRight(t.Name, 20), len(rows))
			}
			return nil
		}

		if err := checkDestination(migrateTo); err != nil {
			return err
		}

		dst, err := cfg.OpenBackend(cmd.Context(), migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		summary, err := store.MigrateData(cmd.Context(), st, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migrated %d rows to %s", summary.Total(), migrateTo))
		for _, t := range store.Tables {
			fmt.Fprintf(out, "  %s: %d\n", padRight(t.Name, 20), summary.Tables[t.Name])
		}
		return nil
	},
}

// checkDestination refuses local destinations that already hold data.
func checkDestination(backend string) error {
	if migrateForce {
		return nil
	}
	var path string
	switch backend {
	case config.BackendSQLite:
		path = filepath.Join(cfg.GetDataDir(), "liftlog.db")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; use --force to copy into it", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	case config.BackendBadger:
		path = filepath.Join(cfg.GetDataDir(), "badger")
	default:
		return nil
	}
	nonEmpty, err := store.IsDirNonEmpty(path)
	if err != nil {
		return err
	}
	if nonEmpty {
		return fmt.Errorf("%s is not empty; use --force to copy into it", path)
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite, postgres, badger, charm")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy into a destination that already holds data")
	rootCmd.AddCommand(migrateCmd)
}
