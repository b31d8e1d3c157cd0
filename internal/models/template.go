// ABOUTME: Template and TemplateExercise models for reusable workout plans.
// ABOUTME: Template ids are client-supplied and stable across edits.
package models

import (
	"encoding/json"
	"time"
)

// Template is a reusable plan. CreatedBy never changes after creation.
type Template struct {
	ID        string             `json:"id" yaml:"id"`
	CreatedBy string             `json:"created_by" yaml:"created_by"`
	Name      string             `json:"name" yaml:"name"`
	IsPublic  bool               `json:"is_public" yaml:"is_public"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" yaml:"updated_at"`
	Exercises []TemplateExercise `json:"exercises" yaml:"exercises"`
}

// TemplateExercise is one prescribed exercise inside a template.
type TemplateExercise struct {
	ID            string
	TemplateID    string
	ExerciseID    string
	ExerciseOrder int
	Sets          int
	Prescription  Prescription
	Effort        Effort
}

// TemplateExerciseFields is the flat wire shape of a template exercise.
// Prescriptions and efforts are decoded from it once, at the boundary.
type TemplateExerciseFields struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	TemplateID    string   `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	ExerciseID    string   `json:"exercise_id" yaml:"exercise_id"`
	ExerciseOrder *int     `json:"exercise_order,omitempty" yaml:"exercise_order,omitempty"`
	Sets          int      `json:"sets" yaml:"sets"`
	Weight        *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Reps          *int     `json:"reps,omitempty" yaml:"reps,omitempty"`
	RepRangeMin   *int     `json:"rep_range_min,omitempty" yaml:"rep_range_min,omitempty"`
	RepRangeMax   *int     `json:"rep_range_max,omitempty" yaml:"rep_range_max,omitempty"`
	RIR           *int     `json:"rir,omitempty" yaml:"rir,omitempty"`
	RIRRangeMin   *int     `json:"rir_range_min,omitempty" yaml:"rir_range_min,omitempty"`
	RIRRangeMax   *int     `json:"rir_range_max,omitempty" yaml:"rir_range_max,omitempty"`
}

// Fields flattens te into its wire shape.
func (te TemplateExercise) Fields() TemplateExerciseFields {
	order := te.ExerciseOrder
	f := TemplateExerciseFields{
		ID:            te.ID,
		TemplateID:    te.TemplateID,
		ExerciseID:    te.ExerciseID,
		ExerciseOrder: &order,
		Sets:          te.Sets,
		Weight:        te.Prescription.Weight,
	}
	switch te.Prescription.Kind {
	case PrescriptionFixed:
		f.Reps = intPtr(te.Prescription.Reps)
	case PrescriptionRange:
		f.RepRangeMin = intPtr(te.Prescription.Min)
		f.RepRangeMax = intPtr(te.Prescription.Max)
	}
	switch te.Effort.Kind {
	case EffortFixed:
		f.RIR = intPtr(te.Effort.RIR)
	case EffortRange:
		f.RIRRangeMin = intPtr(te.Effort.Min)
		f.RIRRangeMax = intPtr(te.Effort.Max)
	}
	return f
}

// Decode builds a TemplateExercise from wire fields. The exercise order is
// left at zero when absent; the ordering normalizer assigns it.
func (f TemplateExerciseFields) Decode() (TemplateExercise, error) {
	p, err := DecodePrescription(f.Reps, f.RepRangeMin, f.RepRangeMax, f.Weight)
	if err != nil {
		return TemplateExercise{}, err
	}
	e, err := DecodeEffort(f.RIR, f.RIRRangeMin, f.RIRRangeMax)
	if err != nil {
		return TemplateExercise{}, err
	}
	te := TemplateExercise{
		ID:           f.ID,
		TemplateID:   f.TemplateID,
		ExerciseID:   f.ExerciseID,
		Sets:         f.Sets,
		Prescription: p,
		Effort:       e,
	}
	if f.ExerciseOrder != nil {
		te.ExerciseOrder = *f.ExerciseOrder
	}
	return te, nil
}

func (te TemplateExercise) MarshalJSON() ([]byte, error) {
	return json.Marshal(te.Fields())
}

func (te *TemplateExercise) UnmarshalJSON(data []byte) error {
	var f TemplateExerciseFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	decoded, err := f.Decode()
	if err != nil {
		return err
	}
	*te = decoded
	return nil
}

func (te TemplateExercise) MarshalYAML() (any, error) {
	return te.Fields(), nil
}

func intPtr(i int) *int {
	return &i
}
