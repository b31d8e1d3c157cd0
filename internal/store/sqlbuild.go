// ABOUTME: SQL statement builder shared by the SQLite and Postgres stores.
// ABOUTME: Emits '?' placeholders; callers rebind for their driver.
package store

import (
	"fmt"
	"strings"
)

// buildInsert renders a multi-row INSERT covering every column of the table.
// Missing columns are written as NULL.
func buildInsert(t TableDef, rows []Record) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(rows)*len(t.Columns))

	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", t.Name, strings.Join(t.Columns, ", "))
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(t.Columns)), ", ") + ")"
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
		for _, col := range t.Columns {
			args = append(args, r[col])
		}
	}
	return b.String(), args
}

// Bind-parameter ceilings per statement.
const (
	sqliteMaxArgs   = 32766
	postgresMaxArgs = 65535
)

// chunkRows splits rows so that no INSERT built from one chunk binds more
// than maxArgs parameters.
func chunkRows(t TableDef, rows []Record, maxArgs int) [][]Record {
	per := maxArgs / len(t.Columns)
	if per < 1 {
		per = 1
	}
	chunks := make([][]Record, 0, (len(rows)+per-1)/per)
	for len(rows) > per {
		chunks = append(chunks, rows[:per])
		rows = rows[per:]
	}
	if len(rows) > 0 {
		chunks = append(chunks, rows)
	}
	return chunks
}

// buildUpsert renders an INSERT ... ON CONFLICT DO UPDATE for one row. Both
// SQLite and Postgres accept the excluded.<col> form.
func buildUpsert(t TableDef, row Record) (string, []any) {
	query, args := buildInsert(t, []Record{row})

	sets := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		if col == t.Key {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", t.Key, strings.Join(sets, ", "))
	return query, args
}

// buildWhere renders a WHERE clause joining filters with AND.
func buildWhere(filters []Filter) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(f.Values)), ", ")
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", f.Column, marks))
		default:
			clauses = append(clauses, f.Column+" = ?")
		}
		args = append(args, f.Values...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildSelect(t TableDef, filters []Filter) (string, []any) {
	where, args := buildWhere(filters)
	return fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(t.Columns, ", "), t.Name, where), args
}

func buildDelete(t TableDef, filters []Filter) (string, []any) {
	where, args := buildWhere(filters)
	return fmt.Sprintf("DELETE FROM %s%s", t.Name, where), args
}
