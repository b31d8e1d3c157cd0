// ABOUTME: Export and import of an owner's workouts and templates.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/liftlog/internal/assembler"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/pipeline"
)

// Version is the export document format version.
const Version = "1.0"

// Data is the full export document for one owner.
type Data struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Owner      string            `json:"owner" yaml:"owner"`
	Workouts   []models.Workout  `json:"workouts" yaml:"workouts"`
	Templates  []models.Template `json:"templates" yaml:"templates"`
}

// Gather composes every workout and every template owned by owner.
// Public templates created by other users are left out.
func Gather(ctx context.Context, reads *assembler.Assembler, owner string, now time.Time) (*Data, error) {
	summaries, err := reads.ListWorkouts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	workouts := make([]models.Workout, 0, len(summaries))
	for _, s := range summaries {
		w, err := reads.Workout(ctx, owner, s.ID)
		if err != nil {
			return nil, fmt.Errorf("load workout %s: %w", s.ID, err)
		}
		workouts = append(workouts, *w)
	}

	templates, err := reads.Templates(ctx, owner, false)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return &Data{
		Version:    Version,
		ExportedAt: now,
		Tool:       "liftlog",
		Owner:      owner,
		Workouts:   workouts,
		Templates:  templates,
	}, nil
}

// Import replays d through the write pipeline as owner. Ids and orders are
// kept, so importing the same document twice leaves the same state.
func Import(ctx context.Context, writes *pipeline.Pipeline, owner string, d *Data) (workouts, templates int, err error) {
	for _, w := range d.Workouts {
		if _, err := writes.FinishWorkout(ctx, owner, finishInput(w)); err != nil {
			return workouts, templates, fmt.Errorf("import workout %s: %w", w.ID, err)
		}
		workouts++
	}

	for _, t := range d.Templates {
		public := t.IsPublic
		in := pipeline.TemplateInput{
			TemplateID: t.ID,
			Name:       t.Name,
			IsPublic:   &public,
			Exercises:  make([]models.TemplateExerciseFields, len(t.Exercises)),
		}
		for i, te := range t.Exercises {
			f := te.Fields()
			f.TemplateID = ""
			in.Exercises[i] = f
		}
		if _, err := writes.SaveTemplate(ctx, owner, in); err != nil {
			return workouts, templates, fmt.Errorf("import template %s: %w", t.ID, err)
		}
		templates++
	}

	return workouts, templates, nil
}

func finishInput(w models.Workout) pipeline.FinishInput {
	in := pipeline.FinishInput{
		WorkoutID:     w.ID,
		Name:          w.Name,
		DatePerformed: w.DatePerformed,
		Duration:      w.Duration,
		Exercises:     make([]pipeline.ExerciseInput, len(w.Exercises)),
	}
	for i, e := range w.Exercises {
		order := e.ExerciseOrder
		ex := pipeline.ExerciseInput{
			ExerciseID:    e.ExerciseID,
			Notes:         e.Notes,
			ExerciseOrder: &order,
			Sets:          make([]pipeline.SetInput, len(e.Sets)),
		}
		for j, s := range e.Sets {
			setOrder := s.SetOrder
			ex.Sets[j] = pipeline.SetInput{Weight: s.Weight, Reps: s.Reps, SetOrder: &setOrder}
		}
		in.Exercises[i] = ex
	}
	return in
}

// JSON renders d as indented JSON.
func JSON(d *Data) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ParseJSON reads a document produced by JSON.
func ParseJSON(data []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &d, nil
}

// YAML renders d as YAML. Template exercises use their flat field shape.
func YAML(d *Data) ([]byte, error) {
	return yaml.Marshal(d)
}

// Markdown renders d as Markdown tables. When since is non-empty only
// workouts performed on or after that date (YYYY-MM-DD) are included.
func Markdown(d *Data, since string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Training Log - %s\n\n", d.Owner))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", d.ExportedAt.Format(time.RFC3339)))

	sb.WriteString("## Workouts\n\n")
	shown := 0
	for _, w := range d.Workouts {
		if since != "" && w.DatePerformed < since {
			continue
		}
		shown++
		sb.WriteString(fmt.Sprintf("### %s %s\n\n", w.DatePerformed, w.Name))
		if w.Duration > 0 {
			sb.WriteString(fmt.Sprintf("Duration: %s, volume: %g\n\n", time.Duration(w.Duration)*time.Second, w.Volume()))
		}
		if len(w.Exercises) == 0 {
			sb.WriteString("_No exercises logged._\n\n")
			continue
		}
		sb.WriteString("| # | Exercise | Set | Weight | Reps | Notes |\n")
		sb.WriteString("|---|----------|-----|--------|------|-------|\n")
		for _, e := range w.Exercises {
			if len(e.Sets) == 0 {
				sb.WriteString(fmt.Sprintf("| %d | %s | - | - | - | %s |\n", e.ExerciseOrder, e.ExerciseID, e.Notes))
				continue
			}
			for i, s := range e.Sets {
				notes := ""
				if i == 0 {
					notes = e.Notes
				}
				sb.WriteString(fmt.Sprintf("| %d | %s | %d | %g | %d | %s |\n",
					e.ExerciseOrder, e.ExerciseID, s.SetOrder, s.Weight, s.Reps, notes))
			}
		}
		sb.WriteString("\n")
	}
	if shown == 0 {
		sb.WriteString("_No workouts._\n\n")
	}

	sb.WriteString("## Templates\n\n")
	if len(d.Templates) == 0 {
		sb.WriteString("_No templates._\n")
		return sb.String()
	}
	for _, t := range d.Templates {
		visibility := "private"
		if t.IsPublic {
			visibility = "public"
		}
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", t.Name, visibility))
		sb.WriteString("| # | Exercise | Sets | Target | Effort |\n")
		sb.WriteString("|---|----------|------|--------|--------|\n")
		for _, te := range t.Exercises {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s | %s |\n",
				te.ExerciseOrder, te.ExerciseID, te.Sets, te.Prescription, te.Effort))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
