// ABOUTME: Workout operations: finish (create-or-replace), create, append sets, delete.
// ABOUTME: Sets are cleared before exercises so child rows never outlive their parent.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/ordering"
	"github.com/harperreed/liftlog/internal/store"
)

// idempotencySpace namespaces workout ids derived from idempotency keys.
var idempotencySpace = uuid.MustParse("6f1c1c52-7d0b-4f43-9d55-3b1a2f4e8c10")

// WorkoutIDForKey derives the workout id used for an idempotency key, so a
// retried finish call lands on the same workout.
func WorkoutIDForKey(caller, key string) string {
	return uuid.NewSHA1(idempotencySpace, []byte(caller+"\x00"+key)).String()
}

type plannedExercise struct {
	models.WorkoutExercise
	sets []ordering.Ordered[SetInput]
}

type workoutHeader struct {
	name     string
	date     string
	duration int
}

func validateHeader(name, date string, duration int) (workoutHeader, error) {
	h := workoutHeader{name: cleanName(name), duration: duration}
	if h.name == "" {
		return h, apperr.InvalidInput("name is required")
	}
	if strings.TrimSpace(date) == "" {
		return h, apperr.InvalidInput("date_performed is required")
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return h, apperr.InvalidInput("date_performed: %v", err)
	}
	h.date = d
	if duration < 0 {
		return h, apperr.InvalidInput("duration must be >= 0")
	}
	return h, nil
}

func validateSets(where string, sets []SetInput) ([]ordering.Ordered[SetInput], error) {
	children := make([]ordering.Child[SetInput], len(sets))
	for i, s := range sets {
		if s.Weight < 0 {
			return nil, apperr.InvalidInput("%ssets[%d]: weight must be >= 0", where, i)
		}
		if s.Reps < 0 {
			return nil, apperr.InvalidInput("%ssets[%d]: reps must be >= 0", where, i)
		}
		children[i] = ordering.Child[SetInput]{Order: s.SetOrder, Value: s}
	}
	return ordering.Normalize("set_order", children, 0)
}

// planExercises validates every exercise and resolves all orders before
// anything is written.
func planExercises(in []ExerciseInput) ([]plannedExercise, error) {
	children := make([]ordering.Child[ExerciseInput], len(in))
	for i, e := range in {
		if strings.TrimSpace(e.ExerciseID) == "" {
			return nil, apperr.InvalidInput("exercises[%d]: exercise_id is required", i)
		}
		children[i] = ordering.Child[ExerciseInput]{Order: e.ExerciseOrder, Value: e}
	}
	ordered, err := ordering.Normalize("exercise_order", children, 0)
	if err != nil {
		return nil, err
	}

	plan := make([]plannedExercise, len(ordered))
	for i, o := range ordered {
		sets, err := validateSets(exercisePrefix(i), o.Value.Sets)
		if err != nil {
			return nil, err
		}
		plan[i] = plannedExercise{
			WorkoutExercise: models.WorkoutExercise{
				ExerciseID:    strings.TrimSpace(o.Value.ExerciseID),
				Notes:         o.Value.Notes,
				ExerciseOrder: o.Order,
			},
			sets: sets,
		}
	}
	return plan, nil
}

func exercisePrefix(i int) string {
	return fmt.Sprintf("exercises[%d].", i)
}

func (p *Pipeline) finishID(caller string, in FinishInput) string {
	switch {
	case strings.TrimSpace(in.WorkoutID) != "":
		return strings.TrimSpace(in.WorkoutID)
	case strings.TrimSpace(in.IdempotencyKey) != "":
		return WorkoutIDForKey(caller, strings.TrimSpace(in.IdempotencyKey))
	default:
		return p.newID()
	}
}

// FinishWorkout writes a complete workout. If the workout already exists it
// must belong to caller; its exercises and sets are replaced wholesale while
// its owner and creation time are kept. Repeating the call converges on the
// same content.
func (p *Pipeline) FinishWorkout(ctx context.Context, caller string, in FinishInput) (*models.Workout, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	h, err := validateHeader(in.Name, in.DatePerformed, in.Duration)
	if err != nil {
		return nil, err
	}
	plan, err := planExercises(in.Exercises)
	if err != nil {
		return nil, err
	}

	id := p.finishID(caller, in)
	unlock := p.locks.Lock(store.TableWorkouts + "/" + id)
	defer unlock()

	existing, err := p.owners.WorkoutForUpsert(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	r := p.begin("finish_workout", "workout_id", id)
	now := p.timestamp()
	w := &models.Workout{
		ID:            id,
		UserID:        caller,
		Name:          h.name,
		DatePerformed: h.date,
		Duration:      h.duration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if existing != nil {
		w.CreatedAt = existing.CreatedAt
	}

	if _, err := p.store.Upsert(ctx, store.TableWorkouts, store.WorkoutRecord(w)); err != nil {
		return nil, r.fail(StepUpsertWorkout, err)
	}
	r.parentWritten = true
	r.done(StepUpsertWorkout)

	if err := p.clearWorkoutChildren(ctx, r, id); err != nil {
		return nil, err
	}

	exRows := make([]store.Record, 0, len(plan))
	var setRows []store.Record
	for i := range plan {
		ex := &plan[i].WorkoutExercise
		ex.ID = p.newID()
		ex.WorkoutID = id
		exRows = append(exRows, store.WorkoutExerciseRecord(ex))

		ex.Sets = make([]models.Set, 0, len(plan[i].sets))
		for _, o := range plan[i].sets {
			s := models.Set{
				ID:                p.newID(),
				WorkoutID:         id,
				WorkoutExerciseID: ex.ID,
				Weight:            o.Value.Weight,
				Reps:              o.Value.Reps,
				SetOrder:          o.Order,
				CreatedAt:         now,
			}
			ex.Sets = append(ex.Sets, s)
			setRows = append(setRows, store.SetRecord(&s))
		}
	}

	if _, err := p.store.Insert(ctx, store.TableWorkoutExercises, exRows...); err != nil {
		return nil, r.fail(StepInsertExercises, err)
	}
	r.done(StepInsertExercises)
	if _, err := p.store.Insert(ctx, store.TableSets, setRows...); err != nil {
		return nil, r.fail(StepInsertSets, err)
	}
	r.done(StepInsertSets)

	w.Exercises = make([]models.WorkoutExercise, len(plan))
	for i := range plan {
		ex := plan[i].WorkoutExercise
		sort.SliceStable(ex.Sets, func(a, b int) bool { return ex.Sets[a].SetOrder < ex.Sets[b].SetOrder })
		w.Exercises[i] = ex
	}
	sort.SliceStable(w.Exercises, func(a, b int) bool {
		return w.Exercises[a].ExerciseOrder < w.Exercises[b].ExerciseOrder
	})

	r.log.Info().Int("exercises", len(exRows)).Int("sets", len(setRows)).Msg("workout saved")
	return w, nil
}

func (p *Pipeline) clearWorkoutChildren(ctx context.Context, r *run, workoutID string) error {
	if _, err := p.store.Delete(ctx, store.TableSets, store.Eq("workout_id", workoutID)); err != nil {
		return r.fail(StepClearSets, err)
	}
	r.done(StepClearSets)
	if _, err := p.store.Delete(ctx, store.TableWorkoutExercises, store.Eq("workout_id", workoutID)); err != nil {
		return r.fail(StepClearExercises, err)
	}
	r.done(StepClearExercises)
	return nil
}

// CreateWorkout inserts a workout with no children. It is not idempotent:
// an id that already exists is rejected.
func (p *Pipeline) CreateWorkout(ctx context.Context, caller string, in CreateWorkoutInput) (*models.Workout, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	h, err := validateHeader(in.Name, in.DatePerformed, in.Duration)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.WorkoutID)
	if id == "" {
		id = p.newID()
	}
	unlock := p.locks.Lock(store.TableWorkouts + "/" + id)
	defer unlock()

	existing, err := p.owners.WorkoutForUpsert(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.InvalidInput("workout %s already exists", id)
	}

	r := p.begin("create_workout", "workout_id", id)
	now := p.timestamp()
	w := &models.Workout{
		ID:            id,
		UserID:        caller,
		Name:          h.name,
		DatePerformed: h.date,
		Duration:      h.duration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := p.store.Insert(ctx, store.TableWorkouts, store.WorkoutRecord(w)); err != nil {
		return nil, r.fail(StepInsertWorkout, err)
	}
	r.done(StepInsertWorkout)
	return w, nil
}

// AddSets appends sets to one exercise of a workout the caller owns. Sibling
// sets are left in place; implicit orders continue after the highest stored
// set_order and explicit orders may not collide with stored ones. Retried
// calls add rows again.
func (p *Pipeline) AddSets(ctx context.Context, caller string, in AddSetsInput) ([]models.Set, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	workoutID := strings.TrimSpace(in.WorkoutID)
	exerciseID := strings.TrimSpace(in.WorkoutExerciseID)
	if workoutID == "" {
		return nil, apperr.InvalidInput("workout_id is required")
	}
	if exerciseID == "" {
		return nil, apperr.InvalidInput("workout_exercises_id is required")
	}
	if len(in.Sets) == 0 {
		return nil, apperr.InvalidInput("sets must not be empty")
	}
	for i, s := range in.Sets {
		if s.Weight < 0 || s.Reps < 0 {
			return nil, apperr.InvalidInput("sets[%d]: weight and reps must be >= 0", i)
		}
		if s.SetOrder != nil && *s.SetOrder < 1 {
			return nil, apperr.InvalidInput("sets[%d]: set_order must be a positive integer", i)
		}
	}

	unlock := p.locks.Lock(store.TableWorkouts + "/" + workoutID)
	defer unlock()

	if _, err := p.owners.WorkoutExercise(ctx, workoutID, exerciseID, caller); err != nil {
		return nil, err
	}

	r := p.begin("add_sets", "workout_exercises_id", exerciseID)
	rows, err := p.store.Select(ctx, store.TableSets, store.Eq("workout_exercises_id", exerciseID))
	if err != nil {
		return nil, r.fail(StepLookupSets, err)
	}
	existing := make([]int, len(rows))
	for i, row := range rows {
		existing[i] = row.Int("set_order")
	}

	children := make([]ordering.Child[SetInput], len(in.Sets))
	for i, s := range in.Sets {
		children[i] = ordering.Child[SetInput]{Order: s.SetOrder, Value: s}
	}
	ordered, err := ordering.Normalize("set_order", children, ordering.Max(existing))
	if err != nil {
		return nil, err
	}
	if err := ordering.CheckAgainst("set_order", existing, ordered); err != nil {
		return nil, err
	}

	now := p.timestamp()
	sets := make([]models.Set, len(ordered))
	setRows := make([]store.Record, len(ordered))
	for i, o := range ordered {
		sets[i] = models.Set{
			ID:                p.newID(),
			WorkoutID:         workoutID,
			WorkoutExerciseID: exerciseID,
			Weight:            o.Value.Weight,
			Reps:              o.Value.Reps,
			SetOrder:          o.Order,
			CreatedAt:         now,
		}
		setRows[i] = store.SetRecord(&sets[i])
	}
	if _, err := p.store.Insert(ctx, store.TableSets, setRows...); err != nil {
		return nil, r.fail(StepInsertSets, err)
	}
	r.done(StepInsertSets)
	return sets, nil
}

// DeleteWorkout removes a workout the caller owns, children first.
func (p *Pipeline) DeleteWorkout(ctx context.Context, caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	unlock := p.locks.Lock(store.TableWorkouts + "/" + id)
	defer unlock()

	if _, err := p.owners.Workout(ctx, id, caller); err != nil {
		return err
	}

	r := p.begin("delete_workout", "workout_id", id)
	if err := p.clearWorkoutChildren(ctx, r, id); err != nil {
		return err
	}
	if _, err := p.store.Delete(ctx, store.TableWorkouts, store.Eq("id", id)); err != nil {
		return r.fail(StepDeleteWorkout, err)
	}
	r.done(StepDeleteWorkout)
	r.log.Info().Msg("workout deleted")
	return nil
}
