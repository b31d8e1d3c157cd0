// ABOUTME: Workout, WorkoutExercise and Set models for logged training sessions.
// ABOUTME: A workout owns its exercises, which own their sets.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for performed-at dates.
const DateLayout = "2006-01-02"

// Workout is a finished or in-progress training session owned by one user.
type Workout struct {
	ID            string            `json:"id" yaml:"id"`
	UserID        string            `json:"user_id" yaml:"user_id"`
	Name          string            `json:"name" yaml:"name"`
	DatePerformed string            `json:"date_performed" yaml:"date_performed"`
	Duration      int               `json:"duration" yaml:"duration"`
	CreatedAt     time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" yaml:"updated_at"`
	Exercises     []WorkoutExercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated when fetching full workout
}

// WorkoutExercise is one exercise performed inside a workout.
type WorkoutExercise struct {
	ID            string `json:"id" yaml:"id"`
	WorkoutID     string `json:"workout_id" yaml:"workout_id"`
	ExerciseID    string `json:"exercise_id" yaml:"exercise_id"`
	Notes         string `json:"notes,omitempty" yaml:"notes,omitempty"`
	ExerciseOrder int    `json:"exercise_order" yaml:"exercise_order"`
	Sets          []Set  `json:"sets" yaml:"sets"`
}

// Set is one set of an exercise. WorkoutID duplicates the parent chain so
// sets can be queried by workout without a join.
type Set struct {
	ID                string    `json:"id" yaml:"id"`
	WorkoutID         string    `json:"workout_id" yaml:"workout_id"`
	WorkoutExerciseID string    `json:"workout_exercises_id" yaml:"workout_exercises_id"`
	Weight            float64   `json:"weight" yaml:"weight"`
	Reps              int       `json:"reps" yaml:"reps"`
	SetOrder          int       `json:"set_order" yaml:"set_order"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
}

// HistoryEntry is one appearance of an exercise in a past workout.
type HistoryEntry struct {
	WorkoutExerciseID string `json:"workout_exercises_id" yaml:"workout_exercises_id"`
	WorkoutID         string `json:"workout_id" yaml:"workout_id"`
	WorkoutName       string `json:"workout_name,omitempty" yaml:"workout_name,omitempty"`
	DatePerformed     string `json:"date_performed" yaml:"date_performed"`
	Sets              []Set  `json:"sets" yaml:"sets"`
}

// SetCount returns the number of sets across all exercises.
func (w *Workout) SetCount() int {
	n := 0
	for _, e := range w.Exercises {
		n += len(e.Sets)
	}
	return n
}

// Volume returns the sum of weight x reps across all sets.
func (w *Workout) Volume() float64 {
	var v float64
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			v += s.Weight * float64(s.Reps)
		}
	}
	return v
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date in DateLayout.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
}
