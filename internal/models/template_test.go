// ABOUTME: Tests for template exercise prescriptions and their wire encoding.
// ABOUTME: Covers decoding rules for reps, rep ranges, and RIR variants.
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDecodePrescription(t *testing.T) {
	tests := []struct {
		name    string
		reps    *int
		min     *int
		max     *int
		weight  *float64
		want    PrescriptionKind
		wantErr bool
	}{
		{name: "unset", want: PrescriptionUnset},
		{name: "weight only", weight: ptr(60.0), want: PrescriptionUnset},
		{name: "fixed", reps: ptr(5), weight: ptr(100.0), want: PrescriptionFixed},
		{name: "range", min: ptr(8), max: ptr(12), want: PrescriptionRange},
		{name: "both", reps: ptr(5), min: ptr(8), max: ptr(12), wantErr: true},
		{name: "half range", min: ptr(8), wantErr: true},
		{name: "inverted range", min: ptr(12), max: ptr(8), wantErr: true},
		{name: "negative reps", reps: ptr(-1), wantErr: true},
		{name: "negative weight", reps: ptr(5), weight: ptr(-5.0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePrescription(tt.reps, tt.min, tt.max, tt.weight)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Kind)
		})
	}
}

func TestDecodeEffort(t *testing.T) {
	e, err := DecodeEffort(ptr(2), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Effort{Kind: EffortFixed, RIR: 2}, e)

	e, err = DecodeEffort(nil, ptr(1), ptr(3))
	require.NoError(t, err)
	assert.Equal(t, Effort{Kind: EffortRange, Min: 1, Max: 3}, e)

	_, err = DecodeEffort(ptr(2), ptr(1), ptr(3))
	assert.Error(t, err)
}

func TestTemplateExerciseJSON(t *testing.T) {
	te := TemplateExercise{
		ID:            "te1",
		TemplateID:    "t1",
		ExerciseID:    "bench",
		ExerciseOrder: 2,
		Sets:          3,
		Prescription:  RepRange(8, 12, ptr(60.0)),
		Effort:        Effort{Kind: EffortFixed, RIR: 2},
	}

	data, err := json.Marshal(te)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, float64(8), wire["rep_range_min"])
	assert.Equal(t, float64(12), wire["rep_range_max"])
	assert.Equal(t, float64(2), wire["rir"])
	assert.NotContains(t, wire, "reps")
	assert.NotContains(t, wire, "rir_range_min")

	var back TemplateExercise
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, te, back)
}

func TestTemplateExerciseUnmarshalRejectsConflicts(t *testing.T) {
	var te TemplateExercise
	err := json.Unmarshal([]byte(`{"exercise_id":"sq","reps":5,"rep_range_min":3,"rep_range_max":6}`), &te)
	assert.Error(t, err)
}

func TestPrescriptionString(t *testing.T) {
	assert.Equal(t, "5 reps @ 100", FixedReps(5, ptr(100.0)).String())
	assert.Equal(t, "8-12 reps", RepRange(8, 12, nil).String())
	assert.Equal(t, "-", Prescription{}.String())
}
