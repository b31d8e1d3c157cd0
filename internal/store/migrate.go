// ABOUTME: Data migration between record store backends.
// ABOUTME: Copies every table parent-first so foreign keys hold in the destination.

package store

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds row counts per migrated table.
type MigrateSummary struct {
	Tables map[string]int
}

// Total returns the number of rows copied.
func (s *MigrateSummary) Total() int {
	n := 0
	for _, c := range s.Tables {
		n += c
	}
	return n
}

// MigrateData copies all rows from src to dst. Tables are copied in
// Tables order, parents before children. The destination should be empty
// before calling this function; duplicate keys fail the migration.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{Tables: make(map[string]int)}

	for _, t := range Tables {
		rows, err := src.Select(ctx, t.Name)
		if err != nil {
			return nil, fmt.Errorf("list source %s: %w", t.Name, err)
		}
		if len(rows) == 0 {
			summary.Tables[t.Name] = 0
			continue
		}

		normalized := make([]Record, 0, len(rows))
		for _, r := range rows {
			n, err := Normalize(t.Name, r)
			if err != nil {
				return nil, fmt.Errorf("normalize %s %s: %w", t.Name, r.String(t.Key), err)
			}
			normalized = append(normalized, n)
		}

		if _, err := dst.Insert(ctx, t.Name, normalized...); err != nil {
			return nil, fmt.Errorf("copy %s: %w", t.Name, err)
		}
		summary.Tables[t.Name] = len(normalized)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
