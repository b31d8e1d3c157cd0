// ABOUTME: CLI commands for workout templates.
// ABOUTME: Supports save, update, list, show, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/pipeline"
)

var templateIncludePublic bool

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t"},
	Short:   "Manage workout templates",
	Long: `Templates are reusable workout plans. Each exercise prescribes a set
count, a rep target (reps, or rep_range_min and rep_range_max) and an
optional reps-in-reserve target (rir, or rir_range_min and rir_range_max).

  {
    "template_id": "optional",
    "name": "Full Body",
    "is_public": true,
    "exercises": [
      {"exercise_id": "squat", "sets": 3, "reps": 5, "rir": 2},
      {"exercise_id": "row", "sets": 3, "rep_range_min": 8, "rep_range_max": 12}
    ]
  }

Saving or updating a template replaces its whole exercise list.`,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <file.json|->",
	Short: "Create or replace a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in pipeline.TemplateInput
		if err := readPayload(args[0], &in); err != nil {
			return err
		}

		t, err := writes().SaveTemplate(cmd.Context(), cfg.GetOwner(), in)
		if err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Saved template %s (%d exercises)", t.Name, len(t.Exercises)))
		fmt.Fprintf(out, "  ID: %s\n", t.ID)
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <id> <file.json|->",
	Short: "Replace a template's exercises",
	Long: `Replace the exercises of a template you own. An empty name keeps the
current name, a missing is_public keeps the current visibility, and an
empty exercise list removes every exercise.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in pipeline.TemplateInput
		if err := readPayload(args[1], &in); err != nil {
			return err
		}

		t, err := writes().UpdateTemplate(cmd.Context(), cfg.GetOwner(), args[0], in)
		if err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Updated template %s (%d exercises)", t.Name, len(t.Exercises)))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := reads().Templates(cmd.Context(), cfg.GetOwner(), templateIncludePublic)
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No templates found.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, t := range templates {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(t.ID),
				padRight(truncate(t.Name, 30), 30),
				faint.Sprintf("%d exercises", len(t.Exercises)))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := reads().Template(cmd.Context(), cfg.GetOwner(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load template: %w", err)
		}
		printTemplate(cmd.OutOrStdout(), t)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writes().DeleteTemplate(cmd.Context(), cfg.GetOwner(), args[0]); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Deleted template %s", args[0]))
		return nil
	},
}

func init() {
	templateListCmd.Flags().BoolVarP(&templateIncludePublic, "public", "p", false, "include other users' public templates")

	templateCmd.AddCommand(templateSaveCmd, templateUpdateCmd, templateListCmd, templateShowCmd, templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
