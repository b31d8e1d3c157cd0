// ABOUTME: Ordering normalizer for per-parent sequence numbers.
// ABOUTME: Fills missing exercise_order/set_order values and rejects duplicates.
package ordering

import (
	"github.com/harperreed/liftlog/internal/apperr"
)

// Child is a submitted child with an optional explicit order.
type Child[T any] struct {
	Order *int
	Value T
}

// Ordered is a child with its resolved order.
type Ordered[T any] struct {
	Order int
	Value T
}

// Normalize resolves orders for one parent's children. A child without an
// explicit order gets base+index+1, where index is its submission position.
// Explicit orders are kept verbatim, gaps included. Non-positive explicit
// orders and repeated orders fail as invalid input naming field.
func Normalize[T any](field string, children []Child[T], base int) ([]Ordered[T], error) {
	out := make([]Ordered[T], len(children))
	seen := make(map[int]struct{}, len(children))

	for i, c := range children {
		order := base + i + 1
		if c.Order != nil {
			if *c.Order < 1 {
				return nil, apperr.InvalidInput("%s must be a positive integer, got %d", field, *c.Order)
			}
			order = *c.Order
		}
		if _, dup := seen[order]; dup {
			return nil, apperr.DuplicateOrder(field, order)
		}
		seen[order] = struct{}{}
		out[i] = Ordered[T]{Order: order, Value: c.Value}
	}
	return out, nil
}

// CheckAgainst rejects resolved orders that collide with orders already
// stored under the same parent.
func CheckAgainst[T any](field string, existing []int, got []Ordered[T]) error {
	taken := make(map[int]struct{}, len(existing))
	for _, o := range existing {
		taken[o] = struct{}{}
	}
	for _, g := range got {
		if _, dup := taken[g.Order]; dup {
			return apperr.DuplicateOrder(field, g.Order)
		}
	}
	return nil
}

// Max returns the largest value in orders, or 0 when empty.
func Max(orders []int) int {
	m := 0
	for _, o := range orders {
		if o > m {
			m = o
		}
	}
	return m
}
