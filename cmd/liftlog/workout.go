// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports finish, create, add-sets, list, show, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/assembler"
	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/pipeline"
)

var (
	workoutKey      string
	workoutName     string
	workoutDate     string
	workoutDuration int
	workoutLimit    int
)

func writes() *pipeline.Pipeline {
	return pipeline.New(st, pipeline.WithLogger(logger.Logger))
}

func reads() *assembler.Assembler {
	return assembler.New(st)
}

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Log workouts made of ordered exercises and sets.

A finished workout is submitted as one JSON document:

  {
    "workout_id": "optional, reuse it when retrying",
    "name": "Leg Day",
    "date_performed": "2026-03-01",
    "duration": 3600,
    "exercises": [
      {"exercise_id": "squat", "sets": [{"weight": 100, "reps": 5}]}
    ]
  }

exercise_order and set_order are optional; missing ones follow the order
of the document. Finishing the same workout again replaces its exercises
and sets instead of adding to them.

COMMANDS:

  finish     Save a complete workout from JSON
  create     Create an empty workout
  add-sets   Append sets to an exercise of a workout
  list       List workouts, most recent first
  show       Show a workout with exercises and sets
  delete     Delete a workout`,
}

var workoutFinishCmd = &cobra.Command{
	Use:   "finish <file.json|->",
	Short: "Save a complete workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in pipeline.FinishInput
		if err := readPayload(args[0], &in); err != nil {
			return err
		}
		in.IdempotencyKey = workoutKey

		w, err := writes().FinishWorkout(cmd.Context(), cfg.GetOwner(), in)
		if err != nil {
			return fmt.Errorf("failed to save workout: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Saved %s (%d exercises, %d sets)", w.Name, len(w.Exercises), w.SetCount()))
		fmt.Fprintf(out, "  ID: %s\n", w.ID)
		return nil
	},
}

var workoutCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := writes().CreateWorkout(cmd.Context(), cfg.GetOwner(), pipeline.CreateWorkoutInput{
			Name:          workoutName,
			DatePerformed: workoutDate,
			Duration:      workoutDuration,
		})
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Created %s", w.Name))
		fmt.Fprintf(out, "  ID: %s\n", w.ID)
		return nil
	},
}

var workoutAddSetsCmd = &cobra.Command{
	Use:   "add-sets <file.json|->",
	Short: "Append sets to an exercise of a workout",
	Long: `Append sets to an exercise that is already part of a workout.

  {
    "workout_id": "...",
    "workout_exercises_id": "...",
    "sets": [{"weight": 102.5, "reps": 5}]
  }

Sets without set_order continue after the highest existing one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in pipeline.AddSetsInput
		if err := readPayload(args[0], &in); err != nil {
			return err
		}

		sets, err := writes().AddSets(cmd.Context(), cfg.GetOwner(), in)
		if err != nil {
			return fmt.Errorf("failed to add sets: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added %d sets", len(sets)))
		for _, s := range sets {
			fmt.Fprintf(out, "  %d: %g x %d\n", s.SetOrder, s.Weight, s.Reps)
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := reads().ListWorkouts(cmd.Context(), cfg.GetOwner())
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(w.ID),
				faint.Sprint(w.DatePerformed),
				truncate(w.Name, 40))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout with exercises and sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := reads().Workout(cmd.Context(), cfg.GetOwner(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load workout: %w", err)
		}
		printWorkout(cmd.OutOrStdout(), w)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writes().DeleteWorkout(cmd.Context(), cfg.GetOwner(), args[0]); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Deleted workout %s", args[0]))
		return nil
	},
}

func init() {
	workoutFinishCmd.Flags().StringVar(&workoutKey, "key", "", "idempotency key; retries with the same key update one workout")

	workoutCreateCmd.Flags().StringVarP(&workoutName, "name", "n", "", "workout name")
	workoutCreateCmd.Flags().StringVarP(&workoutDate, "date", "d", "", "date performed (YYYY-MM-DD)")
	workoutCreateCmd.Flags().IntVar(&workoutDuration, "duration", 0, "duration in seconds")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "l", 20, "max number of results (0 for all)")

	workoutCmd.AddCommand(workoutFinishCmd, workoutCreateCmd, workoutAddSetsCmd,
		workoutListCmd, workoutShowCmd, workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
