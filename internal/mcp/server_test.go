// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers over an in-memory store.
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/pipeline"
	"github.com/harperreed/liftlog/internal/store"
)

const testOwner = "alice"

func setupServer(t *testing.T) *Server {
	t.Helper()

	server, err := NewServer(store.NewMemory(), testOwner)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func intp(i int) *int { return &i }

func legDay() pipeline.FinishInput {
	return pipeline.FinishInput{
		WorkoutID:     "w1",
		Name:          "Leg Day",
		DatePerformed: "2026-03-01",
		Duration:      60,
		Exercises: []pipeline.ExerciseInput{
			{ExerciseID: "squat", Sets: []pipeline.SetInput{
				{Weight: 100, Reps: 5},
				{Weight: 105, Reps: 5},
			}},
			{ExerciseID: "lunge", Sets: []pipeline.SetInput{
				{Weight: 20, Reps: 10},
			}},
		},
	}
}

func TestNewServer(t *testing.T) {
	server := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.writes == nil || server.reads == nil {
		t.Error("Expected pipeline and assembler to be wired")
	}
	if server.owner != testOwner {
		t.Errorf("Expected owner %q, got %q", testOwner, server.owner)
	}
}

func TestNewServerRequiresOwner(t *testing.T) {
	if _, err := NewServer(store.NewMemory(), ""); err == nil {
		t.Fatal("Expected error for empty owner")
	}
}

func TestHandleFinishWorkout(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleFinishWorkout(ctx, nil, legDay())
	if err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}
	w, ok := out.(*models.Workout)
	if !ok {
		t.Fatalf("Expected *models.Workout, got %T", out)
	}
	if len(w.Exercises) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(w.Exercises))
	}
	if w.Exercises[0].ExerciseID != "squat" || w.Exercises[0].ExerciseOrder != 1 {
		t.Errorf("Expected squat first, got %+v", w.Exercises[0])
	}
	if w.SetCount() != 3 {
		t.Errorf("Expected 3 sets, got %d", w.SetCount())
	}

	// Re-sending replaces children rather than appending.
	in := legDay()
	in.Exercises = in.Exercises[:1]
	if _, _, err := server.handleFinishWorkout(ctx, nil, in); err != nil {
		t.Fatalf("second finish failed: %v", err)
	}
	_, out, err = server.handleGetWorkout(ctx, nil, idInput{ID: "w1"})
	if err != nil {
		t.Fatalf("handleGetWorkout failed: %v", err)
	}
	if got := out.(*models.Workout); len(got.Exercises) != 1 || got.SetCount() != 2 {
		t.Errorf("Expected 1 exercise with 2 sets after replace, got %d/%d", len(got.Exercises), got.SetCount())
	}
}

func TestHandleFinishWorkoutRejectsDuplicateOrder(t *testing.T) {
	server := setupServer(t)

	in := legDay()
	in.Exercises[0].Sets[0].SetOrder = intp(1)
	in.Exercises[0].Sets[1].SetOrder = intp(1)

	_, _, err := server.handleFinishWorkout(context.Background(), nil, in)
	if err == nil {
		t.Fatal("Expected error for duplicate set_order")
	}
	if !strings.Contains(err.Error(), "failed to save workout") {
		t.Errorf("Unexpected error text: %v", err)
	}
}

func TestHandleCreateWorkoutAndAddSets(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleCreateWorkout(ctx, nil, pipeline.CreateWorkoutInput{
		WorkoutID:     "w2",
		Name:          "Push",
		DatePerformed: "2026-03-02",
	})
	if err != nil {
		t.Fatalf("handleCreateWorkout failed: %v", err)
	}
	if w := out.(*models.Workout); w.ID != "w2" {
		t.Fatalf("Expected id w2, got %s", w.ID)
	}

	// add_sets needs an exercise to hang off; finish one onto the same workout first.
	_, out, err = server.handleFinishWorkout(ctx, nil, pipeline.FinishInput{
		WorkoutID:     "w2",
		Name:          "Push",
		DatePerformed: "2026-03-02",
		Exercises: []pipeline.ExerciseInput{
			{ExerciseID: "bench", Sets: []pipeline.SetInput{{Weight: 60, Reps: 8}}},
		},
	})
	if err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}
	weID := out.(*models.Workout).Exercises[0].ID

	_, out, err = server.handleAddSets(ctx, nil, pipeline.AddSetsInput{
		WorkoutID:         "w2",
		WorkoutExerciseID: weID,
		Sets:              []pipeline.SetInput{{Weight: 62.5, Reps: 6}},
	})
	if err != nil {
		t.Fatalf("handleAddSets failed: %v", err)
	}
	sets := out.(map[string]any)["sets"].([]models.Set)
	if len(sets) != 1 || sets[0].SetOrder != 2 {
		t.Errorf("Expected one appended set with order 2, got %+v", sets)
	}
}

func TestHandleGetWorkoutNotFound(t *testing.T) {
	server := setupServer(t)

	if _, _, err := server.handleGetWorkout(context.Background(), nil, idInput{ID: "missing"}); err == nil {
		t.Fatal("Expected error for missing workout")
	}
}

func TestHandleListWorkouts(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleListWorkouts(ctx, nil, struct{}{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if msg, ok := out.(simpleOutput); !ok || !strings.Contains(msg.Message, "No workouts") {
		t.Errorf("Expected empty message, got %#v", out)
	}

	if _, _, err := server.handleFinishWorkout(ctx, nil, legDay()); err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}
	_, out, err = server.handleListWorkouts(ctx, nil, struct{}{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	workouts := out.(map[string]any)["workouts"].([]models.Workout)
	if len(workouts) != 1 || workouts[0].Name != "Leg Day" {
		t.Errorf("Unexpected workouts: %+v", workouts)
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	if _, _, err := server.handleFinishWorkout(ctx, nil, legDay()); err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}
	_, out, err := server.handleDeleteWorkout(ctx, nil, idInput{ID: "w1"})
	if err != nil {
		t.Fatalf("handleDeleteWorkout failed: %v", err)
	}
	if !strings.Contains(out.Message, "w1") {
		t.Errorf("Expected message to mention id, got %q", out.Message)
	}
	if _, _, err := server.handleGetWorkout(ctx, nil, idInput{ID: "w1"}); err == nil {
		t.Error("Expected workout to be gone")
	}
}

func TestHandleExerciseHistory(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	if _, _, err := server.handleFinishWorkout(ctx, nil, legDay()); err != nil {
		t.Fatalf("handleFinishWorkout failed: %v", err)
	}

	tests := []struct {
		name     string
		exercise string
		entries  int
		wantErr  bool
	}{
		{"logged exercise", "squat", 1, false},
		{"unknown exercise", "deadlift", 0, false},
		{"empty id", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleExerciseHistory(ctx, nil, historyInput{ExerciseID: tt.exercise})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleExerciseHistory failed: %v", err)
			}
			if tt.entries == 0 {
				if _, ok := out.(simpleOutput); !ok {
					t.Errorf("Expected message output, got %T", out)
				}
				return
			}
			history := out.(map[string]any)["history"].([]models.HistoryEntry)
			if len(history) != tt.entries {
				t.Errorf("Expected %d entries, got %d", tt.entries, len(history))
			}
		})
	}
}

func TestHandleTemplates(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleSaveTemplate(ctx, nil, pipeline.TemplateInput{
		TemplateID: "t1",
		Name:       "Full Body",
		Exercises: []models.TemplateExerciseFields{
			{ExerciseID: "squat", Sets: 3, Reps: intp(5)},
			{ExerciseID: "row", Sets: 3, RepRangeMin: intp(8), RepRangeMax: intp(12)},
		},
	})
	if err != nil {
		t.Fatalf("handleSaveTemplate failed: %v", err)
	}
	if tpl := out.(*models.Template); len(tpl.Exercises) != 2 {
		t.Fatalf("Expected 2 template exercises, got %d", len(tpl.Exercises))
	}

	_, out, err = server.handleUpdateTemplate(ctx, nil, updateTemplateInput{
		ID: "t1",
		Exercises: []models.TemplateExerciseFields{
			{ExerciseID: "deadlift", Sets: 1, Reps: intp(5)},
		},
	})
	if err != nil {
		t.Fatalf("handleUpdateTemplate failed: %v", err)
	}
	tpl := out.(*models.Template)
	if tpl.Name != "Full Body" {
		t.Errorf("Expected name to be kept, got %q", tpl.Name)
	}
	if len(tpl.Exercises) != 1 || tpl.Exercises[0].ExerciseID != "deadlift" {
		t.Errorf("Expected exercises replaced, got %+v", tpl.Exercises)
	}

	_, out, err = server.handleListTemplates(ctx, nil, listTemplatesInput{})
	if err != nil {
		t.Fatalf("handleListTemplates failed: %v", err)
	}
	if list := out.(map[string]any)["templates"].([]models.Template); len(list) != 1 {
		t.Errorf("Expected 1 template, got %d", len(list))
	}

	if _, _, err := server.handleDeleteTemplate(ctx, nil, idInput{ID: "t1"}); err != nil {
		t.Fatalf("handleDeleteTemplate failed: %v", err)
	}
	_, out, err = server.handleListTemplates(ctx, nil, listTemplatesInput{})
	if err != nil {
		t.Fatalf("handleListTemplates failed: %v", err)
	}
	if _, ok := out.(simpleOutput); !ok {
		t.Errorf("Expected empty message after delete, got %T", out)
	}
}

func TestHandleSaveTemplateValidation(t *testing.T) {
	server := setupServer(t)

	_, _, err := server.handleSaveTemplate(context.Background(), nil, pipeline.TemplateInput{Name: "Empty"})
	if err == nil {
		t.Fatal("Expected error for template without exercises")
	}
}

func TestHandleTemplatesResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	if _, _, err := server.handleSaveTemplate(ctx, nil, pipeline.TemplateInput{
		TemplateID: "t1",
		Name:       "Upper",
		Exercises:  []models.TemplateExerciseFields{{ExerciseID: "bench", Sets: 3, Reps: intp(8)}},
	}); err != nil {
		t.Fatalf("handleSaveTemplate failed: %v", err)
	}

	result, err := server.handleTemplatesResource(ctx, nil)
	if err != nil {
		t.Fatalf("handleTemplatesResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != templatesURI || content.MIMEType != "application/json" {
		t.Errorf("Unexpected content header: %s %s", content.URI, content.MIMEType)
	}

	var payload struct {
		Count     int `json:"count"`
		Templates []struct {
			Name      string           `json:"name"`
			Exercises []map[string]any `json:"exercises"`
		} `json:"templates"`
	}
	if err := json.Unmarshal([]byte(content.Text), &payload); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if payload.Count != 1 || payload.Templates[0].Name != "Upper" {
		t.Errorf("Unexpected payload: %+v", payload)
	}
	if reps := payload.Templates[0].Exercises[0]["reps"]; reps != float64(8) {
		t.Errorf("Expected flat reps field 8, got %v", reps)
	}
}

func TestHandleRecentResource(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	for i, date := range []string{"2026-03-01", "2026-03-03"} {
		in := legDay()
		in.WorkoutID = []string{"w1", "w2"}[i]
		in.DatePerformed = date
		if _, _, err := server.handleFinishWorkout(ctx, nil, in); err != nil {
			t.Fatalf("handleFinishWorkout failed: %v", err)
		}
	}

	result, err := server.handleRecentResource(ctx, nil)
	if err != nil {
		t.Fatalf("handleRecentResource failed: %v", err)
	}

	var payload struct {
		Workouts []models.Workout `json:"workouts"`
		Summary  struct {
			Workouts int     `json:"workouts"`
			Sets     int     `json:"sets"`
			Volume   float64 `json:"volume"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if payload.Summary.Workouts != 2 || payload.Summary.Sets != 6 {
		t.Errorf("Unexpected summary: %+v", payload.Summary)
	}
	if payload.Workouts[0].ID != "w2" {
		t.Errorf("Expected most recent first, got %s", payload.Workouts[0].ID)
	}
}
