// ABOUTME: Tests for model/record conversions.
// ABOUTME: Verifies nullable prescription columns survive a SQLite round trip.
package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateExerciseRecordRoundTrip(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "map.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tmpl := &models.Template{ID: "t1", CreatedBy: "alice", Name: "Push", CreatedAt: now, UpdatedAt: now}
	_, err = s.Upsert(ctx, TableTemplates, TemplateRecord(tmpl))
	require.NoError(t, err)

	weight := 60.0
	te := &models.TemplateExercise{
		ID:            "te1",
		TemplateID:    "t1",
		ExerciseID:    "bench",
		ExerciseOrder: 1,
		Sets:          3,
		Prescription:  models.RepRange(8, 12, &weight),
		Effort:        models.Effort{Kind: models.EffortUnset},
	}
	_, err = s.Insert(ctx, TableTemplateExercises, TemplateExerciseRecord(te))
	require.NoError(t, err)

	rows, err := s.Select(ctx, TableTemplateExercises, Eq("template_id", "t1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0]["reps"])

	got, err := TemplateExerciseFromRecord(rows[0])
	require.NoError(t, err)
	assert.Equal(t, te, got)

	tr, err := s.Select(ctx, TableTemplates, Eq("id", "t1"))
	require.NoError(t, err)
	require.Len(t, tr, 1)
	gotTmpl := TemplateFromRecord(tr[0])
	assert.True(t, gotTmpl.CreatedAt.Equal(now))
	assert.False(t, gotTmpl.IsPublic)
}

func TestWorkoutRecordRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	w := &models.Workout{
		ID: "w1", UserID: "alice", Name: "Leg Day", DatePerformed: "2024-01-01",
		Duration: 3600, CreatedAt: now, UpdatedAt: now,
	}
	assert.Equal(t, w, WorkoutFromRecord(WorkoutRecord(w)))

	s := &models.Set{ID: "s1", WorkoutID: "w1", WorkoutExerciseID: "e1", Weight: 100, Reps: 5, SetOrder: 1, CreatedAt: now}
	assert.Equal(t, s, SetFromRecord(SetRecord(s)))
}
