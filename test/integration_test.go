// ABOUTME: Integration tests for liftlog CLI.
// ABOUTME: Builds the binary and runs a full workout workflow against SQLite.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "liftlog")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/liftlog")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	dataDir := t.TempDir()
	run := func(stdin string, args ...string) (string, error) {
		fullArgs := append([]string{
			"--config", filepath.Join(dataDir, "config.json"),
			"--backend", "sqlite",
			"--data-dir", dataDir,
			"--owner", "alice",
			"--log-level", "error",
		}, args...)
		cmd := exec.Command(binary, fullArgs...)
		cmd.Env = append(os.Environ(), "NO_COLOR=1")
		cmd.Stdin = strings.NewReader(stdin)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	workout := `{
  "name": "Leg Day",
  "date_performed": "2026-03-01",
  "exercises": [
    {"exercise_id": "squat", "sets": [{"weight": 100, "reps": 5}, {"weight": 105, "reps": 5}]}
  ]
}`

	// Same idempotency key twice yields one workout.
	for range 2 {
		output, err := run(workout, "workout", "finish", "-", "--key", "session-1")
		if err != nil {
			t.Fatalf("Failed to finish workout: %v\n%s", err, output)
		}
		if !strings.Contains(output, "Saved Leg Day") {
			t.Errorf("Expected 'Saved Leg Day' in output, got: %s", output)
		}
	}

	output, err := run("", "workout", "list")
	if err != nil {
		t.Fatalf("Failed to list workouts: %v\n%s", err, output)
	}
	if strings.Count(output, "Leg Day") != 1 {
		t.Errorf("Expected exactly one workout, got: %s", output)
	}

	output, err = run("", "history", "squat")
	if err != nil {
		t.Fatalf("Failed to show history: %v\n%s", err, output)
	}
	if !strings.Contains(output, "100x5, 105x5") {
		t.Errorf("Expected squat sets in history, got: %s", output)
	}

	template := `{"name": "Full Body", "exercises": [{"exercise_id": "squat", "sets": 3, "reps": 5}]}`
	output, err = run(template, "template", "save", "-")
	if err != nil {
		t.Fatalf("Failed to save template: %v\n%s", err, output)
	}

	output, err = run("", "export", "yaml")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	for _, want := range []string{"name: Leg Day", "name: Full Body", "reps: 5"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in export, got: %s", want, output)
		}
	}
}
