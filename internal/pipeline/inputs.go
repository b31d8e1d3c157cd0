// ABOUTME: Request payloads accepted by the write pipeline.
// ABOUTME: Orders are optional; the normalizer fills the gaps.
package pipeline

import "github.com/harperreed/liftlog/internal/models"

// SetInput is one submitted set.
type SetInput struct {
	Weight   float64 `json:"weight" jsonschema:"weight lifted, zero or more"`
	Reps     int     `json:"reps" jsonschema:"repetitions completed, zero or more"`
	SetOrder *int    `json:"set_order,omitempty" jsonschema:"position within the exercise; defaults to submission order"`
}

// ExerciseInput is one submitted exercise with its sets.
type ExerciseInput struct {
	ExerciseID    string     `json:"exercise_id" jsonschema:"exercise reference id"`
	Notes         string     `json:"notes,omitempty" jsonschema:"free-text notes"`
	ExerciseOrder *int       `json:"exercise_order,omitempty" jsonschema:"position within the workout; defaults to submission order"`
	Sets          []SetInput `json:"sets" jsonschema:"sets performed"`
}

// FinishInput is a complete workout. Submitting it again for the same
// workout replaces every exercise and set.
type FinishInput struct {
	WorkoutID      string          `json:"workout_id,omitempty" jsonschema:"stable workout id; reuse it when retrying"`
	IdempotencyKey string          `json:"-"`
	Name           string          `json:"name" jsonschema:"workout name"`
	DatePerformed  string          `json:"date_performed" jsonschema:"date performed (YYYY-MM-DD)"`
	Duration       int             `json:"duration" jsonschema:"duration in seconds"`
	Exercises      []ExerciseInput `json:"exercises" jsonschema:"exercises in order"`
}

// CreateWorkoutInput creates a workout without children.
type CreateWorkoutInput struct {
	WorkoutID     string `json:"workout_id,omitempty" jsonschema:"optional workout id"`
	Name          string `json:"name" jsonschema:"workout name"`
	DatePerformed string `json:"date_performed" jsonschema:"date performed (YYYY-MM-DD)"`
	Duration      int    `json:"duration" jsonschema:"duration in seconds"`
}

// AddSetsInput appends sets to an existing workout exercise.
type AddSetsInput struct {
	WorkoutID         string     `json:"workout_id" jsonschema:"workout id"`
	WorkoutExerciseID string     `json:"workout_exercises_id" jsonschema:"workout exercise id"`
	Sets              []SetInput `json:"sets" jsonschema:"sets to append"`
}

// TemplateInput creates or replaces a template and its exercises.
type TemplateInput struct {
	TemplateID string                          `json:"template_id,omitempty" jsonschema:"client-chosen template id"`
	Name       string                          `json:"name" jsonschema:"template name"`
	IsPublic   *bool                           `json:"is_public,omitempty" jsonschema:"share the template with other users"`
	Exercises  []models.TemplateExerciseFields `json:"exercises" jsonschema:"prescribed exercises in order"`
}
