// ABOUTME: Record Store contract: single-table insert, upsert, select and delete.
// ABOUTME: Records are column maps; no operation spans more than one table.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Store executes single-table operations against a backend. Implementations
// offer no multi-table commit; callers that touch several tables issue
// several independent calls.
type Store interface {
	// Insert adds rows to table. Inserting a row whose key already exists
	// is an error.
	Insert(ctx context.Context, table string, rows ...Record) ([]Record, error)
	// Upsert inserts row or replaces the existing row with the same key.
	Upsert(ctx context.Context, table string, row Record) (Record, error)
	// Select returns every row of table matching all filters.
	Select(ctx context.Context, table string, filters ...Filter) ([]Record, error)
	// Delete removes every row of table matching all filters and reports
	// how many were removed. At least one filter is required.
	Delete(ctx context.Context, table string, filters ...Filter) (int, error)
	Close() error
}

// ErrNoFilter is returned by Delete when called without filters.
var ErrNoFilter = errors.New("delete requires at least one filter")

// ErrDuplicateKey is returned by Insert when a row's key already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// Record is one row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the column as a string, or "" when null.
func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

// IntPtr returns the column as an int, or nil when null.
func (r Record) IntPtr(col string) *int {
	v, ok := toFloat(r[col])
	if !ok {
		return nil
	}
	i := int(v)
	return &i
}

// Int returns the column as an int, or 0 when null.
func (r Record) Int(col string) int {
	if p := r.IntPtr(col); p != nil {
		return *p
	}
	return 0
}

// FloatPtr returns the column as a float64, or nil when null.
func (r Record) FloatPtr(col string) *float64 {
	v, ok := toFloat(r[col])
	if !ok {
		return nil
	}
	return &v
}

// Float returns the column as a float64, or 0 when null.
func (r Record) Float(col string) float64 {
	if p := r.FloatPtr(col); p != nil {
		return *p
	}
	return 0
}

// Bool returns the column as a bool. SQLite stores booleans as integers.
func (r Record) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		f, ok := toFloat(v)
		return ok && f != 0
	}
}

// Time parses the column as an RFC 3339 timestamp.
func (r Record) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case nil:
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, r.String(col))
	if err != nil {
		return time.Time{}
	}
	return t
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Op is a filter comparison.
type Op string

const (
	OpEq Op = "eq"
	OpIn Op = "in"
)

// Filter restricts a Select or Delete to rows whose column matches.
type Filter struct {
	Column string
	Op     Op
	Values []any
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Values: []any{value}}
}

// In matches rows whose column equals any of values. An empty list matches
// nothing.
func In[T any](column string, values ...T) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Filter{Column: column, Op: OpIn, Values: vs}
}

// matchesNothing reports whether a filter set can never match a row.
func matchesNothing(filters []Filter) bool {
	for _, f := range filters {
		if f.Op == OpIn && len(f.Values) == 0 {
			return true
		}
	}
	return false
}

// Match reports whether r satisfies every filter.
func Match(r Record, filters []Filter) bool {
	for _, f := range filters {
		hit := false
		for _, want := range f.Values {
			if sameValue(r[f.Column], want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, isBool := a.(bool); !isBool {
		if fa, ok := toFloat(a); ok {
			if _, isStr := a.(string); !isStr {
				fb, ok := toFloat(b)
				return ok && fa == fb
			}
		}
	}
	if ba, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ba == bb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
