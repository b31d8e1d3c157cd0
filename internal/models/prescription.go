// ABOUTME: Prescription and Effort sum types for template exercises.
// ABOUTME: Replaces ad hoc optional-field checks with one decoded variant.
package models

import "fmt"

// PrescriptionKind selects which Prescription fields are meaningful.
type PrescriptionKind string

const (
	PrescriptionUnset PrescriptionKind = "unset"
	PrescriptionFixed PrescriptionKind = "fixed"
	PrescriptionRange PrescriptionKind = "range"
)

// Prescription is the rep target for each set: a fixed count, a min/max
// range, or nothing. Weight is optional for every kind.
type Prescription struct {
	Kind   PrescriptionKind
	Reps   int
	Min    int
	Max    int
	Weight *float64
}

// FixedReps prescribes an exact rep count.
func FixedReps(reps int, weight *float64) Prescription {
	return Prescription{Kind: PrescriptionFixed, Reps: reps, Weight: weight}
}

// RepRange prescribes a rep range.
func RepRange(min, max int, weight *float64) Prescription {
	return Prescription{Kind: PrescriptionRange, Min: min, Max: max, Weight: weight}
}

// String renders the prescription for display.
func (p Prescription) String() string {
	var s string
	switch p.Kind {
	case PrescriptionFixed:
		s = fmt.Sprintf("%d reps", p.Reps)
	case PrescriptionRange:
		s = fmt.Sprintf("%d-%d reps", p.Min, p.Max)
	default:
		s = "-"
	}
	if p.Weight != nil {
		s += fmt.Sprintf(" @ %g", *p.Weight)
	}
	return s
}

// DecodePrescription resolves the optional wire fields into one variant.
// Supplying both a fixed count and a range is rejected.
func DecodePrescription(reps, min, max *int, weight *float64) (Prescription, error) {
	if weight != nil && *weight < 0 {
		return Prescription{}, fmt.Errorf("weight must be >= 0")
	}
	hasRange := min != nil || max != nil
	switch {
	case reps != nil && hasRange:
		return Prescription{}, fmt.Errorf("specify either reps or a rep range, not both")
	case reps != nil:
		if *reps < 0 {
			return Prescription{}, fmt.Errorf("reps must be >= 0")
		}
		return FixedReps(*reps, weight), nil
	case hasRange:
		if min == nil || max == nil {
			return Prescription{}, fmt.Errorf("rep range needs both rep_range_min and rep_range_max")
		}
		if *min < 0 || *max < *min {
			return Prescription{}, fmt.Errorf("invalid rep range %d-%d", *min, *max)
		}
		return RepRange(*min, *max, weight), nil
	default:
		return Prescription{Kind: PrescriptionUnset, Weight: weight}, nil
	}
}

// EffortKind selects which Effort fields are meaningful.
type EffortKind string

const (
	EffortUnset EffortKind = "unset"
	EffortFixed EffortKind = "fixed"
	EffortRange EffortKind = "range"
)

// Effort is the reps-in-reserve target: exact, a range, or nothing.
type Effort struct {
	Kind EffortKind
	RIR  int
	Min  int
	Max  int
}

// String renders the effort for display.
func (e Effort) String() string {
	switch e.Kind {
	case EffortFixed:
		return fmt.Sprintf("RIR %d", e.RIR)
	case EffortRange:
		return fmt.Sprintf("RIR %d-%d", e.Min, e.Max)
	default:
		return "-"
	}
}

// DecodeEffort resolves the optional RIR wire fields into one variant.
func DecodeEffort(rir, min, max *int) (Effort, error) {
	hasRange := min != nil || max != nil
	switch {
	case rir != nil && hasRange:
		return Effort{}, fmt.Errorf("specify either rir or an rir range, not both")
	case rir != nil:
		if *rir < 0 {
			return Effort{}, fmt.Errorf("rir must be >= 0")
		}
		return Effort{Kind: EffortFixed, RIR: *rir}, nil
	case hasRange:
		if min == nil || max == nil {
			return Effort{}, fmt.Errorf("rir range needs both rir_range_min and rir_range_max")
		}
		if *min < 0 || *max < *min {
			return Effort{}, fmt.Errorf("invalid rir range %d-%d", *min, *max)
		}
		return Effort{Kind: EffortRange, Min: *min, Max: *max}, nil
	default:
		return Effort{Kind: EffortUnset}, nil
	}
}
