// ABOUTME: Shared output helpers for CLI commands.
// ABOUTME: Reads JSON payloads and prints workouts and templates with color.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/liftlog/internal/models"
)

// readPayload decodes a JSON file into v; "-" reads stdin.
func readPayload(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func printWorkout(w io.Writer, wk *models.Workout) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "%s  %s\n", bold.Sprint(wk.Name), faint.Sprint(wk.DatePerformed))
	fmt.Fprintf(w, "  ID: %s\n", wk.ID)
	if wk.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", time.Duration(wk.Duration)*time.Second)
	}
	fmt.Fprintf(w, "  Sets: %d  Volume: %g\n", wk.SetCount(), wk.Volume())
	for _, e := range wk.Exercises {
		fmt.Fprintf(w, "\n  %d. %s %s\n", e.ExerciseOrder, bold.Sprint(e.ExerciseID), faint.Sprint(shortID(e.ID)))
		if e.Notes != "" {
			fmt.Fprintf(w, "     %s\n", faint.Sprint(e.Notes))
		}
		for _, s := range e.Sets {
			fmt.Fprintf(w, "     %d: %g x %d\n", s.SetOrder, s.Weight, s.Reps)
		}
	}
}

func printTemplate(w io.Writer, t *models.Template) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	visibility := "private"
	if t.IsPublic {
		visibility = "public"
	}
	fmt.Fprintf(w, "%s  %s\n", bold.Sprint(t.Name), faint.Sprint(visibility))
	fmt.Fprintf(w, "  ID: %s  Created by: %s\n", t.ID, t.CreatedBy)
	for _, te := range t.Exercises {
		fmt.Fprintf(w, "  %d. %s  %d x %s  %s\n",
			te.ExerciseOrder, padRight(te.ExerciseID, 16), te.Sets, te.Prescription, faint.Sprint(te.Effort))
	}
}
