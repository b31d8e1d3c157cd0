// ABOUTME: Conversions between domain models and store records.
// ABOUTME: Timestamps are stored as RFC 3339 text, booleans as bools.
package store

import (
	"fmt"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// WorkoutRecord converts a workout (without children) to a row.
func WorkoutRecord(w *models.Workout) Record {
	return Record{
		"id":             w.ID,
		"user_id":        w.UserID,
		"name":           w.Name,
		"date_performed": w.DatePerformed,
		"duration":       w.Duration,
		"created_at":     formatTime(w.CreatedAt),
		"updated_at":     formatTime(w.UpdatedAt),
	}
}

// WorkoutFromRecord converts a row to a workout.
func WorkoutFromRecord(r Record) *models.Workout {
	return &models.Workout{
		ID:            r.String("id"),
		UserID:        r.String("user_id"),
		Name:          r.String("name"),
		DatePerformed: r.String("date_performed"),
		Duration:      r.Int("duration"),
		CreatedAt:     r.Time("created_at"),
		UpdatedAt:     r.Time("updated_at"),
	}
}

// WorkoutExerciseRecord converts a workout exercise (without sets) to a row.
func WorkoutExerciseRecord(e *models.WorkoutExercise) Record {
	return Record{
		"id":             e.ID,
		"workout_id":     e.WorkoutID,
		"exercise_id":    e.ExerciseID,
		"notes":          nullString(e.Notes),
		"exercise_order": e.ExerciseOrder,
	}
}

// WorkoutExerciseFromRecord converts a row to a workout exercise.
func WorkoutExerciseFromRecord(r Record) *models.WorkoutExercise {
	return &models.WorkoutExercise{
		ID:            r.String("id"),
		WorkoutID:     r.String("workout_id"),
		ExerciseID:    r.String("exercise_id"),
		Notes:         r.String("notes"),
		ExerciseOrder: r.Int("exercise_order"),
	}
}

// SetRecord converts a set to a row.
func SetRecord(s *models.Set) Record {
	return Record{
		"id":                   s.ID,
		"workout_id":           s.WorkoutID,
		"workout_exercises_id": s.WorkoutExerciseID,
		"weight":               s.Weight,
		"reps":                 s.Reps,
		"set_order":            s.SetOrder,
		"created_at":           formatTime(s.CreatedAt),
	}
}

// SetFromRecord converts a row to a set.
func SetFromRecord(r Record) *models.Set {
	return &models.Set{
		ID:                r.String("id"),
		WorkoutID:         r.String("workout_id"),
		WorkoutExerciseID: r.String("workout_exercises_id"),
		Weight:            r.Float("weight"),
		Reps:              r.Int("reps"),
		SetOrder:          r.Int("set_order"),
		CreatedAt:         r.Time("created_at"),
	}
}

// TemplateRecord converts a template (without exercises) to a row.
func TemplateRecord(t *models.Template) Record {
	return Record{
		"id":         t.ID,
		"created_by": t.CreatedBy,
		"name":       t.Name,
		"is_public":  t.IsPublic,
		"created_at": formatTime(t.CreatedAt),
		"updated_at": formatTime(t.UpdatedAt),
	}
}

// TemplateFromRecord converts a row to a template.
func TemplateFromRecord(r Record) *models.Template {
	return &models.Template{
		ID:        r.String("id"),
		CreatedBy: r.String("created_by"),
		Name:      r.String("name"),
		IsPublic:  r.Bool("is_public"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

// TemplateExerciseRecord converts a template exercise to a row.
func TemplateExerciseRecord(te *models.TemplateExercise) Record {
	f := te.Fields()
	return Record{
		"id":             te.ID,
		"template_id":    te.TemplateID,
		"exercise_id":    te.ExerciseID,
		"exercise_order": te.ExerciseOrder,
		"sets":           te.Sets,
		"weight":         nullable(f.Weight),
		"reps":           nullable(f.Reps),
		"rep_range_min":  nullable(f.RepRangeMin),
		"rep_range_max":  nullable(f.RepRangeMax),
		"rir":            nullable(f.RIR),
		"rir_range_min":  nullable(f.RIRRangeMin),
		"rir_range_max":  nullable(f.RIRRangeMax),
	}
}

// TemplateExerciseFromRecord converts a row to a template exercise. Rows
// that carry conflicting prescription columns are reported as errors.
func TemplateExerciseFromRecord(r Record) (*models.TemplateExercise, error) {
	order := r.Int("exercise_order")
	f := models.TemplateExerciseFields{
		ID:            r.String("id"),
		TemplateID:    r.String("template_id"),
		ExerciseID:    r.String("exercise_id"),
		ExerciseOrder: &order,
		Sets:          r.Int("sets"),
		Weight:        r.FloatPtr("weight"),
		Reps:          r.IntPtr("reps"),
		RepRangeMin:   r.IntPtr("rep_range_min"),
		RepRangeMax:   r.IntPtr("rep_range_max"),
		RIR:           r.IntPtr("rir"),
		RIRRangeMin:   r.IntPtr("rir_range_min"),
		RIRRangeMax:   r.IntPtr("rir_range_max"),
	}
	te, err := f.Decode()
	if err != nil {
		return nil, fmt.Errorf("template exercise %s: %w", f.ID, err)
	}
	return &te, nil
}

// Normalize re-encodes a row read from any backend into the canonical Go
// types for its table, so it can be written to a different backend.
func Normalize(table string, r Record) (Record, error) {
	switch table {
	case TableWorkouts:
		return WorkoutRecord(WorkoutFromRecord(r)), nil
	case TableWorkoutExercises:
		return WorkoutExerciseRecord(WorkoutExerciseFromRecord(r)), nil
	case TableSets:
		return SetRecord(SetFromRecord(r)), nil
	case TableTemplates:
		return TemplateRecord(TemplateFromRecord(r)), nil
	case TableTemplateExercises:
		te, err := TemplateExerciseFromRecord(r)
		if err != nil {
			return nil, err
		}
		return TemplateExerciseRecord(te), nil
	default:
		return nil, fmt.Errorf("unknown table: %q", table)
	}
}
