// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports status, now, and reset when the charm backend is in use.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/charm"
	"github.com/harperreed/liftlog/internal/config"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync data across devices with Charm Cloud",
	Long: `Sync liftlog data across devices using Charm Cloud.

Only applies when backend is "charm". Data is E2E encrypted with your SSH
key before upload and syncs automatically after each write.

COMMANDS:

  status      Show sync status and account info
  now         Pull and push changes immediately
  reset       Drop local data and restore from cloud`,
}

func charmClient() (*charm.Client, error) {
	if cfg.GetBackend() != config.BackendCharm {
		return nil, fmt.Errorf("sync needs the charm backend (current: %s)", cfg.GetBackend())
	}
	return charm.InitClient(cfg.CharmHost)
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Annotations: skipStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charmClient()
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		id, err := client.ID()
		if err != nil {
			fmt.Fprintln(out, color.YellowString("Not linked: %v", err))
		} else {
			fmt.Fprintf(out, "Account: %s\n", id)
		}
		mode := "read-write"
		if client.IsReadOnly() {
			mode = "read-only (another process holds the lock)"
		}
		fmt.Fprintf(out, "Local database: %s\n", mode)
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:         "now",
	Short:       "Sync immediately",
	Annotations: skipStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charmClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Synced"))
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Drop local data and restore from cloud",
	Annotations: skipStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charmClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Local data restored from cloud"))
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncStatusCmd, syncNowCmd, syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
