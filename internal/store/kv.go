// ABOUTME: Record Store layered over an ordered key-value backend.
// ABOUTME: Rows are JSON values under "<table>/<id>" keys; filters run in process.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// KV is the minimal key-value surface a backend must offer. Badger and the
// Charm KV client both satisfy it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Keys returns every key starting with prefix.
	Keys(prefix []byte) ([][]byte, error)
	Close() error
}

// KVStore implements Store on top of a KV backend.
type KVStore struct {
	kv KV
}

var _ Store = (*KVStore)(nil)

// NewKVStore wraps kv.
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

// Close closes the backend.
func (s *KVStore) Close() error {
	return s.kv.Close()
}

func rowKey(table, id string) []byte {
	return []byte(table + "/" + id)
}

func tablePrefix(table string) []byte {
	return []byte(table + "/")
}

func (s *KVStore) Insert(ctx context.Context, table string, rows ...Record) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := t.checkColumns(r); err != nil {
			return nil, err
		}
	}

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := rowKey(table, r.String(t.Key))
		existing, err := s.kv.Get(key)
		if err == nil && existing != nil {
			return nil, fmt.Errorf("insert %s %s: %w", table, r.String(t.Key), ErrDuplicateKey)
		}
		if err := s.put(key, r); err != nil {
			return nil, fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return cloneAll(rows), nil
}

func (s *KVStore) Upsert(ctx context.Context, table string, row Record) (Record, error) {
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

	if err := s.put(rowKey(table, row.String(t.Key)), row); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	return row.Clone(), nil
}

func (s *KVStore) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkFilters(filters); err != nil {
		return nil, err
	}
	if matchesNothing(filters) {
		return nil, nil
	}

	keys, err := s.kv.Keys(tablePrefix(table))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	sort.Slice(keys, func(i, j int) bool { return string(keys[i]) < string(keys[j]) })

	var out []Record
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", table, err)
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if Match(r, filters) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *KVStore) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	t, err := LookupTable(table)
	if err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, ErrNoFilter
	}

	rows, err := s.Select(ctx, table, filters...)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if err := s.kv.Delete(rowKey(table, r.String(t.Key))); err != nil {
			return 0, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return len(rows), nil
}

func (s *KVStore) put(key []byte, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	return s.kv.Set(key, data)
}
