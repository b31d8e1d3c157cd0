// ABOUTME: Tests for MigrateData between record store backends.
// ABOUTME: Copies a full workout and template hierarchy from badger into SQLite.
package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHierarchy(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "w1", "squat", 1))
	require.NoError(t, err)
	_, err = s.Insert(ctx, TableSets,
		Record{"id": "s1", "workout_id": "w1", "workout_exercises_id": "e1", "weight": 100.0, "reps": 5, "set_order": 1, "created_at": "2024-01-01T10:00:00Z"},
		Record{"id": "s2", "workout_id": "w1", "workout_exercises_id": "e1", "weight": 100.0, "reps": 5, "set_order": 2, "created_at": "2024-01-01T10:00:00Z"},
	)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, TableTemplates, Record{
		"id": "t1", "created_by": "alice", "name": "Push", "is_public": true,
		"created_at": "2024-01-01T10:00:00Z", "updated_at": "2024-01-01T10:00:00Z",
	})
	require.NoError(t, err)
	_, err = s.Insert(ctx, TableTemplateExercises, Record{
		"id": "te1", "template_id": "t1", "exercise_id": "bench", "exercise_order": 1, "sets": 3, "reps": 5,
	})
	require.NoError(t, err)
}

func TestMigrateData(t *testing.T) {
	ctx := context.Background()

	kv, err := OpenBadger("")
	require.NoError(t, err)
	src := NewKVStore(kv)
	defer src.Close()
	seedHierarchy(t, src)

	dst, err := OpenSQLite(filepath.Join(t.TempDir(), "dst.db"))
	require.NoError(t, err)
	defer dst.Close()

	summary, err := MigrateData(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Tables[TableWorkouts])
	assert.Equal(t, 2, summary.Tables[TableSets])
	assert.Equal(t, 6, summary.Total())

	sets, err := dst.Select(ctx, TableSets, Eq("workout_id", "w1"))
	require.NoError(t, err)
	assert.Len(t, sets, 2)

	tmpl, err := dst.Select(ctx, TableTemplates, Eq("id", "t1"))
	require.NoError(t, err)
	require.Len(t, tmpl, 1)
	assert.True(t, tmpl[0].Bool("is_public"))
}

func TestMigrateDataLargeTable(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	_, err := src.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
	require.NoError(t, err)
	_, err = src.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "w1", "squat", 1))
	require.NoError(t, err)
	_, err = src.Insert(ctx, TableSets, manySets(5000)...)
	require.NoError(t, err)

	dst, err := OpenSQLite(filepath.Join(t.TempDir(), "dst.db"))
	require.NoError(t, err)
	defer dst.Close()

	summary, err := MigrateData(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 5000, summary.Tables[TableSets])

	sets, err := dst.Select(ctx, TableSets)
	require.NoError(t, err)
	assert.Len(t, sets, 5000)
}

func TestMigrateDataDuplicateFails(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	seedHierarchy(t, src)
	dst := NewMemory()
	seedHierarchy(t, dst)

	_, err := MigrateData(ctx, src, dst)
	assert.Error(t, err)
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, nonEmpty)

	nonEmpty, err = IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.False(t, nonEmpty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600))
	nonEmpty, err = IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.True(t, nonEmpty)
}
