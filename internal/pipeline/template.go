// ABOUTME: Template operations: create-or-replace, update, delete.
// ABOUTME: The exercise list is fully replaced on every save; the creator never changes.
package pipeline

import (
	"context"
	"sort"
	"strings"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/ordering"
	"github.com/harperreed/liftlog/internal/store"
)

// planTemplateExercises decodes prescriptions and resolves exercise orders.
func planTemplateExercises(in []models.TemplateExerciseFields) ([]models.TemplateExercise, error) {
	children := make([]ordering.Child[models.TemplateExercise], len(in))
	ids := make(map[string]struct{}, len(in))
	for i, f := range in {
		if strings.TrimSpace(f.ExerciseID) == "" {
			return nil, apperr.InvalidInput("exercises[%d]: exercise_id is required", i)
		}
		if f.Sets < 0 {
			return nil, apperr.InvalidInput("exercises[%d]: sets must be >= 0", i)
		}
		if f.ID != "" {
			if _, dup := ids[f.ID]; dup {
				return nil, apperr.InvalidInput("exercises[%d]: id %s is used more than once", i, f.ID)
			}
			ids[f.ID] = struct{}{}
		}
		te, err := f.Decode()
		if err != nil {
			return nil, apperr.InvalidInput("exercises[%d]: %v", i, err)
		}
		te.ExerciseID = strings.TrimSpace(te.ExerciseID)
		children[i] = ordering.Child[models.TemplateExercise]{Order: f.ExerciseOrder, Value: te}
	}

	ordered, err := ordering.Normalize("exercise_order", children, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.TemplateExercise, len(ordered))
	for i, o := range ordered {
		o.Value.ExerciseOrder = o.Order
		out[i] = o.Value
	}
	return out, nil
}

func exerciseIDs(exercises []models.TemplateExercise) []string {
	var ids []string
	for _, te := range exercises {
		if te.ID != "" {
			ids = append(ids, te.ID)
		}
	}
	return ids
}

// SaveTemplate creates a template, or replaces one the caller already owns
// under the same id. The exercise list must not be empty. Saving the same
// payload twice leaves one template whose creator and creation time are
// those of the first call.
func (p *Pipeline) SaveTemplate(ctx context.Context, caller string, in TemplateInput) (*models.Template, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	name := cleanName(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	if len(in.Exercises) == 0 {
		return nil, apperr.InvalidInput("exercises must not be empty")
	}
	exercises, err := planTemplateExercises(in.Exercises)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.TemplateID)
	if id == "" {
		id = p.newID()
	}
	unlock := p.locks.Lock(store.TableTemplates + "/" + id)
	defer unlock()

	existing, err := p.owners.TemplateForUpsert(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := p.owners.TemplateExerciseIDs(ctx, id, exerciseIDs(exercises)); err != nil {
		return nil, err
	}

	t := &models.Template{ID: id, CreatedBy: caller, Name: name}
	if in.IsPublic != nil {
		t.IsPublic = *in.IsPublic
	}
	if existing != nil {
		t.CreatedAt = existing.CreatedAt
	}
	return p.writeTemplate(ctx, "save_template", t, exercises)
}

// UpdateTemplate replaces the name, visibility and exercises of a template
// the caller owns. An empty name or omitted visibility keeps the stored
// value; an empty exercise list removes every exercise.
func (p *Pipeline) UpdateTemplate(ctx context.Context, caller, id string, in TemplateInput) (*models.Template, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.InvalidInput("template id is required")
	}
	if in.TemplateID != "" && strings.TrimSpace(in.TemplateID) != id {
		return nil, apperr.InvalidInput("template_id %s does not match %s", in.TemplateID, id)
	}
	exercises, err := planTemplateExercises(in.Exercises)
	if err != nil {
		return nil, err
	}

	unlock := p.locks.Lock(store.TableTemplates + "/" + id)
	defer unlock()

	existing, err := p.owners.Template(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := p.owners.TemplateExerciseIDs(ctx, id, exerciseIDs(exercises)); err != nil {
		return nil, err
	}

	t := &models.Template{
		ID:        id,
		CreatedBy: existing.CreatedBy,
		Name:      existing.Name,
		IsPublic:  existing.IsPublic,
		CreatedAt: existing.CreatedAt,
	}
	if name := cleanName(in.Name); name != "" {
		t.Name = name
	}
	if in.IsPublic != nil {
		t.IsPublic = *in.IsPublic
	}
	return p.writeTemplate(ctx, "update_template", t, exercises)
}

// writeTemplate runs upsert parent, clear children, insert children. A zero
// CreatedAt marks a new template.
func (p *Pipeline) writeTemplate(ctx context.Context, op string, t *models.Template, exercises []models.TemplateExercise) (*models.Template, error) {
	r := p.begin(op, "template_id", t.ID)
	now := p.timestamp()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	if _, err := p.store.Upsert(ctx, store.TableTemplates, store.TemplateRecord(t)); err != nil {
		return nil, r.fail(StepUpsertTemplate, err)
	}
	r.parentWritten = true
	r.done(StepUpsertTemplate)

	if _, err := p.store.Delete(ctx, store.TableTemplateExercises, store.Eq("template_id", t.ID)); err != nil {
		return nil, r.fail(StepClearTemplateExercises, err)
	}
	r.done(StepClearTemplateExercises)

	rows := make([]store.Record, len(exercises))
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = p.newID()
		}
		exercises[i].TemplateID = t.ID
		rows[i] = store.TemplateExerciseRecord(&exercises[i])
	}
	if _, err := p.store.Insert(ctx, store.TableTemplateExercises, rows...); err != nil {
		return nil, r.fail(StepInsertTemplateExercises, err)
	}
	r.done(StepInsertTemplateExercises)

	sort.SliceStable(exercises, func(a, b int) bool {
		return exercises[a].ExerciseOrder < exercises[b].ExerciseOrder
	})
	t.Exercises = exercises
	r.log.Info().Int("exercises", len(exercises)).Msg("template saved")
	return t, nil
}

// DeleteTemplate removes a template the caller owns, exercises first.
func (p *Pipeline) DeleteTemplate(ctx context.Context, caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.InvalidInput("template id is required")
	}
	unlock := p.locks.Lock(store.TableTemplates + "/" + id)
	defer unlock()

	if _, err := p.owners.Template(ctx, id, caller); err != nil {
		return err
	}

	r := p.begin("delete_template", "template_id", id)
	if _, err := p.store.Delete(ctx, store.TableTemplateExercises, store.Eq("template_id", id)); err != nil {
		return r.fail(StepClearTemplateExercises, err)
	}
	r.done(StepClearTemplateExercises)
	if _, err := p.store.Delete(ctx, store.TableTemplates, store.Eq("id", id)); err != nil {
		return r.fail(StepDeleteTemplate, err)
	}
	r.done(StepDeleteTemplate)
	r.log.Info().Msg("template deleted")
	return nil
}
