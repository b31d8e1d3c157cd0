// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts as the configured owner
(--owner, "owner" in config, or $USER).

  {
    "mcpServers": {
      "liftlog": { "command": "liftlog", "args": ["mcp"] }
    }
  }

AVAILABLE TOOLS:

  finish_workout    Save a complete workout
  create_workout    Create an empty workout
  add_sets          Append sets to an exercise
  get_workout       Workout with exercises and sets
  list_workouts     List workouts
  delete_workout    Delete a workout
  exercise_history  History of one exercise
  save_template     Create or replace a template
  update_template   Replace a template's exercises
  list_templates    List templates
  delete_template   Delete a template

AVAILABLE RESOURCES:

  liftlog://templates   Your templates plus public ones
  liftlog://recent      Last 10 workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(st, cfg.GetOwner())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
