// ABOUTME: CLI command for exercise history.
// ABOUTME: Lists every logged appearance of an exercise, most recent first.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history <exercise_id>",
	Aliases: []string{"h"},
	Short:   "Show the history of an exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := reads().ExerciseHistory(cmd.Context(), cfg.GetOwner(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintf(out, "No history for %s.\n", args[0])
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range entries {
			sets := make([]string, len(e.Sets))
			for i, s := range e.Sets {
				sets[i] = fmt.Sprintf("%gx%d", s.Weight, s.Reps)
			}
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(e.DatePerformed),
				padRight(truncate(e.WorkoutName, 24), 24),
				strings.Join(sets, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
