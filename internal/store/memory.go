// ABOUTME: In-process Record Store for tests and throwaway sessions.
// ABOUTME: Keeps rows in maps guarded by a RWMutex; nothing is persisted.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is a map-backed Store.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string]Record
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]map[string]Record)}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Insert(ctx context.Context, table string, rows ...Record) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tbl := m.table(table)
	batch := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if err := t.checkColumns(r); err != nil {
			return nil, err
		}
		key := r.String(t.Key)
		_, stored := tbl[key]
		_, repeated := batch[key]
		if stored || repeated {
			return nil, fmt.Errorf("insert %s %s: %w", table, key, ErrDuplicateKey)
		}
		batch[key] = struct{}{}
	}
	for _, r := range rows {
		tbl[r.String(t.Key)] = r.Clone()
	}
	return cloneAll(rows), nil
}

func (m *Memory) Upsert(ctx context.Context, table string, row Record) (Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkColumns(row); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(table)[row.String(t.Key)] = row.Clone()
	return row.Clone(), nil
}

func (m *Memory) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkFilters(filters); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, r := range m.tables[table] {
		if Match(r, filters) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String(t.Key) < out[j].String(t.Key) })
	return out, nil
}

func (m *Memory) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	t, err := LookupTable(table)
	if err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, ErrNoFilter
	}
	if err := t.checkFilters(filters); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, r := range m.tables[table] {
		if Match(r, filters) {
			delete(m.tables[table], id)
			n++
		}
	}
	return n, nil
}

// table returns the row map for name, creating it. Callers hold mu.
func (m *Memory) table(name string) map[string]Record {
	tbl, ok := m.tables[name]
	if !ok {
		tbl = make(map[string]Record)
		m.tables[name] = tbl
	}
	return tbl
}
