// ABOUTME: CLI commands for exporting and importing workouts and templates.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/export"
	"github.com/harperreed/liftlog/internal/models"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workouts and templates",
	Long: `Export your workouts and templates.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

EXAMPLES:

  liftlog export json -o backup.json
  liftlog export markdown --since 2026-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if exportSince != "" {
			since, err := models.ParseDate(exportSince)
			if err != nil {
				return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
			}
			exportSince = since
		}

		d, err := export.Gather(cmd.Context(), reads(), cfg.GetOwner(), time.Now())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "json":
			data, err = export.JSON(d)
		case "yaml":
			data, err = export.YAML(d)
		case "markdown", "md":
			data = []byte(export.Markdown(d, exportSince))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workouts and templates from JSON",
	Long: `Import a JSON export. Workouts and templates keep their ids, so
importing the same file twice leaves the same data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		d, err := export.ParseJSON(raw)
		if err != nil {
			return err
		}

		workouts, templates, err := export.Import(cmd.Context(), writes(), cfg.GetOwner(), d)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %d workouts and %d templates from %s", workouts, templates, args[0]))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "markdown only: workouts since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
