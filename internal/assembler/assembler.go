// ABOUTME: Read assembler: joins parent rows with their ordered children.
// ABOUTME: Independent child lookups run concurrently; grouping and sorting happen in memory.
package assembler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/ownership"
	"github.com/harperreed/liftlog/internal/store"
)

// Assembler builds composite read models from the record store.
type Assembler struct {
	store  store.Store
	owners *ownership.Validator
}

// New returns an assembler reading from s.
func New(s store.Store) *Assembler {
	return &Assembler{store: s, owners: ownership.New(s)}
}

// Workout returns a workout the caller owns with its exercises and sets,
// ordered by exercise_order and set_order.
func (a *Assembler) Workout(ctx context.Context, caller, id string) (*models.Workout, error) {
	w, err := a.owners.Workout(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	var exRows, setRows []store.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.store.Select(gctx, store.TableWorkoutExercises, store.Eq("workout_id", id))
		if err != nil {
			return apperr.Store("load_exercises", err)
		}
		exRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.store.Select(gctx, store.TableSets, store.Eq("workout_id", id))
		if err != nil {
			return apperr.Store("load_sets", err)
		}
		setRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.Exercises = groupExercises(exRows, setRows)
	return w, nil
}

func groupExercises(exRows, setRows []store.Record) []models.WorkoutExercise {
	bySet := groupSets(setRows)
	exercises := make([]models.WorkoutExercise, 0, len(exRows))
	for _, r := range exRows {
		ex := store.WorkoutExerciseFromRecord(r)
		ex.Sets = bySet[ex.ID]
		if ex.Sets == nil {
			ex.Sets = []models.Set{}
		}
		exercises = append(exercises, *ex)
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].ExerciseOrder != exercises[j].ExerciseOrder {
			return exercises[i].ExerciseOrder < exercises[j].ExerciseOrder
		}
		return exercises[i].ID < exercises[j].ID
	})
	return exercises
}

// groupSets buckets sets by workout exercise, each bucket sorted by set_order.
func groupSets(rows []store.Record) map[string][]models.Set {
	out := make(map[string][]models.Set)
	for _, r := range rows {
		s := store.SetFromRecord(r)
		out[s.WorkoutExerciseID] = append(out[s.WorkoutExerciseID], *s)
	}
	for _, sets := range out {
		sort.SliceStable(sets, func(i, j int) bool {
			if sets[i].SetOrder != sets[j].SetOrder {
				return sets[i].SetOrder < sets[j].SetOrder
			}
			return sets[i].ID < sets[j].ID
		})
	}
	return out
}

// ListWorkouts returns the caller's workouts without children, most
// recently performed first.
func (a *Assembler) ListWorkouts(ctx context.Context, caller string) ([]models.Workout, error) {
	rows, err := a.store.Select(ctx, store.TableWorkouts, store.Eq("user_id", caller))
	if err != nil {
		return nil, apperr.Store("list_workouts", err)
	}
	workouts := make([]models.Workout, len(rows))
	for i, r := range rows {
		workouts[i] = *store.WorkoutFromRecord(r)
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].DatePerformed != workouts[j].DatePerformed {
			return workouts[i].DatePerformed > workouts[j].DatePerformed
		}
		return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
	})
	return workouts, nil
}

// Templates returns the caller's templates, plus other users' public ones
// when includePublic is set, each with exercises ordered by exercise_order.
func (a *Assembler) Templates(ctx context.Context, caller string, includePublic bool) ([]models.Template, error) {
	var own, public []store.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.store.Select(gctx, store.TableTemplates, store.Eq("created_by", caller))
		if err != nil {
			return apperr.Store("list_templates", err)
		}
		own = rows
		return nil
	})
	if includePublic {
		g.Go(func() error {
			rows, err := a.store.Select(gctx, store.TableTemplates, store.Eq("is_public", true))
			if err != nil {
				return apperr.Store("list_public_templates", err)
			}
			public = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var templates []models.Template
	for _, r := range append(own, public...) {
		t := store.TemplateFromRecord(r)
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		templates = append(templates, *t)
	}
	if len(templates) == 0 {
		return []models.Template{}, nil
	}

	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	rows, err := a.store.Select(ctx, store.TableTemplateExercises, store.In("template_id", ids...))
	if err != nil {
		return nil, apperr.Store("load_template_exercises", err)
	}
	byTemplate, err := groupTemplateExercises(rows)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].Exercises = byTemplate[templates[i].ID]
		if templates[i].Exercises == nil {
			templates[i].Exercises = []models.TemplateExercise{}
		}
	}

	sort.SliceStable(templates, func(i, j int) bool {
		ni, nj := strings.ToLower(templates[i].Name), strings.ToLower(templates[j].Name)
		if ni != nj {
			return ni < nj
		}
		return templates[i].ID < templates[j].ID
	})
	return templates, nil
}

func groupTemplateExercises(rows []store.Record) (map[string][]models.TemplateExercise, error) {
	out := make(map[string][]models.TemplateExercise)
	for _, r := range rows {
		te, err := store.TemplateExerciseFromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode template exercises: %w", err)
		}
		out[te.TemplateID] = append(out[te.TemplateID], *te)
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].ExerciseOrder != list[j].ExerciseOrder {
				return list[i].ExerciseOrder < list[j].ExerciseOrder
			}
			return list[i].ID < list[j].ID
		})
	}
	return out, nil
}

// Template returns one template visible to the caller: their own, or any
// public one.
func (a *Assembler) Template(ctx context.Context, caller, id string) (*models.Template, error) {
	rows, err := a.store.Select(ctx, store.TableTemplates, store.Eq("id", id))
	if err != nil {
		return nil, apperr.Store("lookup_template", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("template %s not found", id)
	}
	t := store.TemplateFromRecord(rows[0])
	if t.CreatedBy != caller && !t.IsPublic {
		return nil, apperr.Forbidden("template %s belongs to another user", id)
	}

	exRows, err := a.store.Select(ctx, store.TableTemplateExercises, store.Eq("template_id", id))
	if err != nil {
		return nil, apperr.Store("load_template_exercises", err)
	}
	byTemplate, err := groupTemplateExercises(exRows)
	if err != nil {
		return nil, err
	}
	t.Exercises = byTemplate[id]
	if t.Exercises == nil {
		t.Exercises = []models.TemplateExercise{}
	}
	return t, nil
}

// ExerciseHistory returns every appearance of an exercise in the caller's
// workouts with its sets, most recent first. It fans out to workout
// exercises, keeps those whose workout the caller owns, then fans out to
// their sets.
func (a *Assembler) ExerciseHistory(ctx context.Context, caller, exerciseID string) ([]models.HistoryEntry, error) {
	exerciseID = strings.TrimSpace(exerciseID)
	if exerciseID == "" {
		return nil, apperr.InvalidInput("exercise_id is required")
	}

	exRows, err := a.store.Select(ctx, store.TableWorkoutExercises, store.Eq("exercise_id", exerciseID))
	if err != nil {
		return nil, apperr.Store("history_exercises", err)
	}
	if len(exRows) == 0 {
		return []models.HistoryEntry{}, nil
	}

	workoutIDs := make([]string, 0, len(exRows))
	for _, r := range exRows {
		workoutIDs = append(workoutIDs, r.String("workout_id"))
	}
	wRows, err := a.store.Select(ctx, store.TableWorkouts,
		store.In("id", workoutIDs...),
		store.Eq("user_id", caller),
	)
	if err != nil {
		return nil, apperr.Store("history_workouts", err)
	}
	workouts := make(map[string]*models.Workout, len(wRows))
	for _, r := range wRows {
		w := store.WorkoutFromRecord(r)
		workouts[w.ID] = w
	}

	var owned []*models.WorkoutExercise
	for _, r := range exRows {
		ex := store.WorkoutExerciseFromRecord(r)
		if _, ok := workouts[ex.WorkoutID]; ok {
			owned = append(owned, ex)
		}
	}
	if len(owned) == 0 {
		return []models.HistoryEntry{}, nil
	}

	exIDs := make([]string, len(owned))
	for i, ex := range owned {
		exIDs[i] = ex.ID
	}
	setRows, err := a.store.Select(ctx, store.TableSets, store.In("workout_exercises_id", exIDs...))
	if err != nil {
		return nil, apperr.Store("history_sets", err)
	}
	bySet := groupSets(setRows)

	entries := make([]models.HistoryEntry, len(owned))
	for i, ex := range owned {
		w := workouts[ex.WorkoutID]
		sets := bySet[ex.ID]
		if sets == nil {
			sets = []models.Set{}
		}
		entries[i] = models.HistoryEntry{
			WorkoutExerciseID: ex.ID,
			WorkoutID:         w.ID,
			WorkoutName:       w.Name,
			DatePerformed:     w.DatePerformed,
			Sets:              sets,
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DatePerformed != entries[j].DatePerformed {
			return entries[i].DatePerformed > entries[j].DatePerformed
		}
		return entries[i].WorkoutExerciseID < entries[j].WorkoutExerciseID
	})
	return entries, nil
}
