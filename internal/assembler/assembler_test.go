// ABOUTME: Tests for the read assembler using the pipeline to seed data.
// ABOUTME: Checks grouping, ordering, visibility and the history fan-out.
package assembler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/pipeline"
	"github.com/harperreed/liftlog/internal/store"
)

func intp(i int) *int {
	return &i
}

func boolp(b bool) *bool {
	return &b
}

func setup(t *testing.T) (*Assembler, *pipeline.Pipeline) {
	t.Helper()
	s := store.NewMemory()
	t.Cleanup(func() { _ = s.Close() })
	return New(s), pipeline.New(s)
}

func finish(t *testing.T, p *pipeline.Pipeline, caller, id, date string, exercises ...pipeline.ExerciseInput) {
	t.Helper()
	_, err := p.FinishWorkout(context.Background(), caller, pipeline.FinishInput{
		WorkoutID:     id,
		Name:          "Workout " + id,
		DatePerformed: date,
		Duration:      1200,
		Exercises:     exercises,
	})
	require.NoError(t, err)
}

func squat(weights ...float64) pipeline.ExerciseInput {
	ex := pipeline.ExerciseInput{ExerciseID: "sq1"}
	for _, w := range weights {
		ex.Sets = append(ex.Sets, pipeline.SetInput{Weight: w, Reps: 5})
	}
	return ex
}

func TestWorkoutGroupsAndOrders(t *testing.T) {
	a, p := setup(t)
	ctx := context.Background()
	bench := pipeline.ExerciseInput{
		ExerciseID:    "bp1",
		ExerciseOrder: intp(1),
		Sets: []pipeline.SetInput{
			{Weight: 60, Reps: 10, SetOrder: intp(5)},
			{Weight: 70, Reps: 8, SetOrder: intp(2)},
		},
	}
	sq := squat(100)
	sq.ExerciseOrder = intp(4)
	finish(t, p, "alice", "w1", "2024-01-01", sq, bench)

	w, err := a.Workout(ctx, "alice", "w1")
	require.NoError(t, err)
	require.Len(t, w.Exercises, 2)
	assert.Equal(t, "bp1", w.Exercises[0].ExerciseID)
	assert.Equal(t, "sq1", w.Exercises[1].ExerciseID)
	require.Len(t, w.Exercises[0].Sets, 2)
	assert.Equal(t, 2, w.Exercises[0].Sets[0].SetOrder)
	assert.Equal(t, 5, w.Exercises[0].Sets[1].SetOrder)
	assert.Equal(t, 3, w.SetCount())
	assert.InDelta(t, 60*10+70*8+100*5, w.Volume(), 0.001)
}

func TestWorkoutOwnership(t *testing.T) {
	a, p := setup(t)
	finish(t, p, "alice", "w1", "2024-01-01", squat(100))

	_, err := a.Workout(context.Background(), "bob", "w1")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = a.Workout(context.Background(), "alice", "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestWorkoutWithoutChildren(t *testing.T) {
	a, p := setup(t)
	_, err := p.CreateWorkout(context.Background(), "alice", pipeline.CreateWorkoutInput{
		WorkoutID: "w1", Name: "Empty", DatePerformed: "2024-01-01",
	})
	require.NoError(t, err)

	w, err := a.Workout(context.Background(), "alice", "w1")
	require.NoError(t, err)
	assert.NotNil(t, w.Exercises)
	assert.Empty(t, w.Exercises)
}

func TestListWorkouts(t *testing.T) {
	a, p := setup(t)
	finish(t, p, "alice", "w1", "2024-01-01")
	finish(t, p, "alice", "w2", "2024-03-01")
	finish(t, p, "bob", "w3", "2024-02-01")

	list, err := a.ListWorkouts(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "w2", list[0].ID)
	assert.Equal(t, "w1", list[1].ID)
}

func TestExerciseHistory(t *testing.T) {
	a, p := setup(t)
	finish(t, p, "alice", "w1", "2024-01-01", squat(100, 105))
	finish(t, p, "alice", "w2", "2024-02-01", squat(110))
	finish(t, p, "alice", "w3", "2024-03-01", pipeline.ExerciseInput{ExerciseID: "dl1", Sets: []pipeline.SetInput{{Weight: 140, Reps: 3}}})
	finish(t, p, "bob", "w4", "2024-04-01", squat(200))

	history, err := a.ExerciseHistory(context.Background(), "alice", "sq1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "w2", history[0].WorkoutID)
	assert.Equal(t, "2024-02-01", history[0].DatePerformed)
	require.Len(t, history[0].Sets, 1)
	assert.Equal(t, 110.0, history[0].Sets[0].Weight)

	assert.Equal(t, "w1", history[1].WorkoutID)
	require.Len(t, history[1].Sets, 2)
	assert.Equal(t, 1, history[1].Sets[0].SetOrder)
	assert.Equal(t, 2, history[1].Sets[1].SetOrder)
}

func TestExerciseHistoryEmpty(t *testing.T) {
	a, p := setup(t)
	finish(t, p, "bob", "w1", "2024-01-01", squat(100))

	history, err := a.ExerciseHistory(context.Background(), "alice", "sq1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err = a.ExerciseHistory(context.Background(), "alice", "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func saveTemplate(t *testing.T, p *pipeline.Pipeline, caller, id, name string, public bool, exercises ...string) {
	t.Helper()
	in := pipeline.TemplateInput{TemplateID: id, Name: name, IsPublic: boolp(public)}
	for _, ex := range exercises {
		in.Exercises = append(in.Exercises, models.TemplateExerciseFields{ExerciseID: ex, Sets: 3, Reps: intp(5)})
	}
	_, err := p.SaveTemplate(context.Background(), caller, in)
	require.NoError(t, err)
}

func TestTemplates(t *testing.T) {
	a, p := setup(t)
	ctx := context.Background()
	saveTemplate(t, p, "alice", "t1", "Pull", false, "row", "chin")
	saveTemplate(t, p, "alice", "t2", "Legs", false, "squat")
	saveTemplate(t, p, "bob", "t3", "Arms", true, "curl")
	saveTemplate(t, p, "bob", "t4", "Secret", false, "shrug")

	own, err := a.Templates(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Legs", own[0].Name)
	assert.Equal(t, "Pull", own[1].Name)
	require.Len(t, own[1].Exercises, 2)
	assert.Equal(t, "row", own[1].Exercises[0].ExerciseID)
	assert.Equal(t, 1, own[1].Exercises[0].ExerciseOrder)
	assert.Equal(t, "chin", own[1].Exercises[1].ExerciseID)

	all, err := a.Templates(ctx, "alice", true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arms", all[0].Name)

	none, err := a.Templates(ctx, "carol", false)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTemplatesAfterEmptyUpdate(t *testing.T) {
	a, p := setup(t)
	ctx := context.Background()
	saveTemplate(t, p, "alice", "t1", "Push", false, "bench", "ohp", "dips")

	_, err := p.UpdateTemplate(ctx, "alice", "t1", pipeline.TemplateInput{Exercises: []models.TemplateExerciseFields{}})
	require.NoError(t, err)

	list, err := a.Templates(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)
	assert.Empty(t, list[0].Exercises)
}

func TestTemplateVisibility(t *testing.T) {
	a, p := setup(t)
	ctx := context.Background()
	saveTemplate(t, p, "bob", "pub", "Arms", true, "curl")
	saveTemplate(t, p, "bob", "priv", "Secret", false, "shrug")

	tpl, err := a.Template(ctx, "alice", "pub")
	require.NoError(t, err)
	require.Len(t, tpl.Exercises, 1)

	_, err = a.Template(ctx, "alice", "priv")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = a.Template(ctx, "alice", "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
