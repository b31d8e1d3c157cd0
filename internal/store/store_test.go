// ABOUTME: Behaviour tests run against every Record Store backend.
// ABOUTME: Covers insert, upsert, filtered select and delete semantics.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFactory func(t *testing.T) Store

func backends() map[string]backendFactory {
	b := map[string]backendFactory{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "liftlog.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"badger": func(t *testing.T) Store {
			kv, err := OpenBadger("")
			require.NoError(t, err)
			s := NewKVStore(kv)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	if url := os.Getenv("LIFTLOG_TEST_DATABASE_URL"); url != "" {
		b["postgres"] = func(t *testing.T) Store {
			s, err := OpenPostgres(context.Background(), url)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			for i := len(Tables) - 1; i >= 0; i-- {
				_, err := s.pool.Exec(context.Background(), "DELETE FROM "+Tables[i].Name)
				require.NoError(t, err)
			}
			return s
		}
	}
	return b
}

func workoutRow(id, user, date string) Record {
	return Record{
		"id":             id,
		"user_id":        user,
		"name":           "Leg Day",
		"date_performed": date,
		"duration":       3600,
		"created_at":     "2024-01-01T10:00:00Z",
		"updated_at":     "2024-01-01T10:00:00Z",
	}
}

func exerciseRow(id, workout, exercise string, order int) Record {
	return Record{
		"id":             id,
		"workout_id":     workout,
		"exercise_id":    exercise,
		"notes":          nil,
		"exercise_order": order,
	}
}

func TestStoreInsertAndSelect(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Insert(ctx, TableWorkouts,
				workoutRow("w1", "alice", "2024-01-01"),
				workoutRow("w2", "alice", "2024-01-02"),
				workoutRow("w3", "bob", "2024-01-03"),
			)
			require.NoError(t, err)

			rows, err := s.Select(ctx, TableWorkouts, Eq("user_id", "alice"))
			require.NoError(t, err)
			assert.Len(t, rows, 2)

			rows, err = s.Select(ctx, TableWorkouts, In("id", "w1", "w3"))
			require.NoError(t, err)
			require.Len(t, rows, 2)

			rows, err = s.Select(ctx, TableWorkouts, Eq("id", "w3"))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "bob", rows[0].String("user_id"))
			assert.Equal(t, 3600, rows[0].Int("duration"))

			all, err := s.Select(ctx, TableWorkouts)
			require.NoError(t, err)
			assert.Len(t, all, 3)

			none, err := s.Select(ctx, TableWorkouts, In[string]("id"))
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreInsertDuplicateKey(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
			require.NoError(t, err)
			_, err = s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
			assert.Error(t, err)

			_, err = s.Insert(ctx, TableWorkouts,
				workoutRow("w2", "alice", "2024-01-02"),
				workoutRow("w2", "bob", "2024-01-03"),
			)
			assert.Error(t, err, "duplicate key within one batch")
		})
	}
}

func manySets(n int) []Record {
	rows := make([]Record, n)
	for i := range rows {
		rows[i] = Record{
			"id": fmt.Sprintf("s%05d", i), "workout_id": "w1", "workout_exercises_id": "e1",
			"weight": 100.0, "reps": 5, "set_order": i + 1, "created_at": "2024-01-01T10:00:00Z",
		}
	}
	return rows
}

func TestStoreInsertLargeBatch(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			_, err := s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
			require.NoError(t, err)
			_, err = s.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "w1", "squat", 1))
			require.NoError(t, err)

			_, err = s.Insert(ctx, TableSets, manySets(5000)...)
			require.NoError(t, err)

			rows, err := s.Select(ctx, TableSets, Eq("workout_id", "w1"))
			require.NoError(t, err)
			assert.Len(t, rows, 5000)
		})
	}
}

func TestSQLiteLargeBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "liftlog.db"))
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "w1", "squat", 1))
	require.NoError(t, err)

	rows := manySets(5000)
	rows[len(rows)-1]["id"] = rows[0]["id"]
	_, err = s.Insert(ctx, TableSets, rows...)
	assert.Error(t, err)

	got, err := s.Select(ctx, TableSets)
	require.NoError(t, err)
	assert.Empty(t, got, "earlier chunks rolled back")
}

func TestStoreUpsertReplacesRow(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			row := Record{
				"id":         "t1",
				"created_by": "alice",
				"name":       "Push",
				"is_public":  false,
				"created_at": "2024-01-01T10:00:00Z",
				"updated_at": "2024-01-01T10:00:00Z",
			}
			_, err := s.Upsert(ctx, TableTemplates, row)
			require.NoError(t, err)

			row = row.Clone()
			row["name"] = "Push A"
			row["is_public"] = true
			row["updated_at"] = "2024-01-02T10:00:00Z"
			_, err = s.Upsert(ctx, TableTemplates, row)
			require.NoError(t, err)

			rows, err := s.Select(ctx, TableTemplates, Eq("id", "t1"))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Push A", rows[0].String("name"))
			assert.True(t, rows[0].Bool("is_public"))
			assert.Equal(t, "2024-01-01T10:00:00Z", rows[0].String("created_at"))
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
			require.NoError(t, err)
			_, err = s.Insert(ctx, TableWorkoutExercises,
				exerciseRow("e1", "w1", "squat", 1),
				exerciseRow("e2", "w1", "lunge", 2),
			)
			require.NoError(t, err)

			n, err := s.Delete(ctx, TableWorkoutExercises, Eq("workout_id", "w1"))
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			n, err = s.Delete(ctx, TableWorkoutExercises, Eq("workout_id", "w1"))
			require.NoError(t, err, "deleting zero rows is not an error")
			assert.Equal(t, 0, n)

			_, err = s.Delete(ctx, TableWorkouts)
			assert.ErrorIs(t, err, ErrNoFilter)
		})
	}
}

func TestStoreRejectsUnknownColumns(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Insert(ctx, TableWorkouts, Record{"id": "w1", "bogus": 1})
			assert.Error(t, err)

			_, err = s.Select(ctx, TableWorkouts, Eq("bogus", 1))
			assert.Error(t, err)

			_, err = s.Select(ctx, "nope")
			assert.Error(t, err)
		})
	}
}

func TestSQLiteForeignKeysEnforced(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "missing", "squat", 1))
	assert.Error(t, err, "child row without parent must be rejected")

	_, err = s.Insert(ctx, TableWorkouts, workoutRow("w1", "alice", "2024-01-01"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, TableWorkoutExercises, exerciseRow("e1", "w1", "squat", 1))
	require.NoError(t, err)

	_, err = s.Delete(ctx, TableWorkouts, Eq("id", "w1"))
	assert.Error(t, err, "parent with children must not be deletable")
}
