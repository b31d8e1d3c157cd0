// ABOUTME: Tests for the shared SQL statement builder.
// ABOUTME: Checks placeholders, upsert clauses and where rendering.
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInsertMultiRow(t *testing.T) {
	def, err := LookupTable(TableWorkoutExercises)
	assert.NoError(t, err)

	query, args := buildInsert(def, []Record{
		{"id": "e1", "workout_id": "w1", "exercise_id": "sq", "exercise_order": 1},
		{"id": "e2", "workout_id": "w1", "exercise_id": "dl", "exercise_order": 2},
	})

	assert.Equal(t,
		"INSERT INTO workout_exercises (id, workout_id, exercise_id, notes, exercise_order) VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)",
		query)
	assert.Equal(t, []any{"e1", "w1", "sq", nil, 1, "e2", "w1", "dl", nil, 2}, args)
}

func TestChunkRows(t *testing.T) {
	def, _ := LookupTable(TableSets)
	rows := make([]Record, 10)
	for i := range rows {
		rows[i] = Record{"id": i}
	}

	chunks := chunkRows(def, rows, 3*len(def.Columns))
	assert.Len(t, chunks, 4)
	assert.Len(t, chunks[3], 1)

	assert.Len(t, chunkRows(def, rows, sqliteMaxArgs), 1)
	assert.Len(t, chunkRows(def, rows, 1), 10, "at least one row per chunk")

	total := 0
	for _, c := range chunkRows(def, manySets(5000), sqliteMaxArgs) {
		assert.LessOrEqual(t, len(c)*len(def.Columns), sqliteMaxArgs)
		total += len(c)
	}
	assert.Equal(t, 5000, total)
}

func TestBuildUpsert(t *testing.T) {
	def, _ := LookupTable(TableTemplates)
	query, _ := buildUpsert(def, Record{"id": "t1"})

	assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE SET created_by = excluded.created_by")
	assert.NotContains(t, query, "id = excluded.id")
}

func TestBuildSelectWhere(t *testing.T) {
	def, _ := LookupTable(TableSets)
	query, args := buildSelect(def, []Filter{Eq("workout_id", "w1"), In("workout_exercises_id", "a", "b")})

	assert.Equal(t,
		"SELECT id, workout_id, workout_exercises_id, weight, reps, set_order, created_at FROM sets WHERE workout_id = ? AND workout_exercises_id IN (?, ?)",
		query)
	assert.Equal(t, []any{"w1", "a", "b"}, args)
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "DELETE FROM sets WHERE workout_id = $1 AND id IN ($2, $3)",
		rebind("DELETE FROM sets WHERE workout_id = ? AND id IN (?, ?)"))
}
