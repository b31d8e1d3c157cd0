// ABOUTME: Ownership validator run before any mutation of a parent record.
// ABOUTME: Resolves a parent by id and checks its owner against the caller.
package ownership

import (
	"context"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/store"
)

// Validator checks parent ownership. It never writes.
type Validator struct {
	store store.Store
}

// New returns a validator reading from s.
func New(s store.Store) *Validator {
	return &Validator{store: s}
}

func (v *Validator) lookup(ctx context.Context, table, id, step string) (store.Record, error) {
	rows, err := v.store.Select(ctx, table, store.Eq("id", id))
	if err != nil {
		return nil, apperr.Store(step, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Workout returns the workout if caller owns it.
func (v *Validator) Workout(ctx context.Context, id, caller string) (*models.Workout, error) {
	w, err := v.WorkoutForUpsert(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperr.NotFound("workout %s not found", id)
	}
	return w, nil
}

// WorkoutForUpsert is Workout for create-or-replace paths: an absent workout
// yields (nil, nil) and the caller becomes its owner.
func (v *Validator) WorkoutForUpsert(ctx context.Context, id, caller string) (*models.Workout, error) {
	r, err := v.lookup(ctx, store.TableWorkouts, id, "lookup_workout")
	if err != nil || r == nil {
		return nil, err
	}
	w := store.WorkoutFromRecord(r)
	if w.UserID != caller {
		return nil, apperr.Forbidden("workout %s belongs to another user", id)
	}
	return w, nil
}

// Template returns the template if caller created it.
func (v *Validator) Template(ctx context.Context, id, caller string) (*models.Template, error) {
	t, err := v.TemplateForUpsert(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("template %s not found", id)
	}
	return t, nil
}

// TemplateForUpsert returns (nil, nil) when the template does not exist.
func (v *Validator) TemplateForUpsert(ctx context.Context, id, caller string) (*models.Template, error) {
	r, err := v.lookup(ctx, store.TableTemplates, id, "lookup_template")
	if err != nil || r == nil {
		return nil, err
	}
	t := store.TemplateFromRecord(r)
	if t.CreatedBy != caller {
		return nil, apperr.Forbidden("template %s belongs to another user", id)
	}
	return t, nil
}

// WorkoutExercise verifies the chain workout -> workout exercise: the caller
// owns the workout and the exercise belongs to it.
func (v *Validator) WorkoutExercise(ctx context.Context, workoutID, workoutExerciseID, caller string) (*models.WorkoutExercise, error) {
	if _, err := v.Workout(ctx, workoutID, caller); err != nil {
		return nil, err
	}
	rows, err := v.store.Select(ctx, store.TableWorkoutExercises,
		store.Eq("id", workoutExerciseID),
		store.Eq("workout_id", workoutID),
	)
	if err != nil {
		return nil, apperr.Store("lookup_workout_exercise", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("workout exercise %s not found in workout %s", workoutExerciseID, workoutID)
	}
	return store.WorkoutExerciseFromRecord(rows[0]), nil
}

// TemplateExerciseIDs rejects client-supplied exercise ids that already
// belong to a template other than templateID.
func (v *Validator) TemplateExerciseIDs(ctx context.Context, templateID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := v.store.Select(ctx, store.TableTemplateExercises, store.In("id", ids...))
	if err != nil {
		return apperr.Store("lookup_template_exercises", err)
	}
	for _, r := range rows {
		if r.String("template_id") != templateID {
			return apperr.InvalidInput("exercise id %s is already in use", r.String("id"))
		}
	}
	return nil
}
