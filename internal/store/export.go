package store

import (
	"context"
	"strings"
)

// ExportAll returns all entries, optionally filtered by origin.
func (s *SQLiteStore) ExportAll(ctx context.Context, origin string) ([]Entry, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if origin != "" {
		where = append(where, "origin = ?")
		args = append(args, origin)
	}

	query := `SELECT origin, key, value, revision, updated_at
	          FROM kv WHERE ` + strings.Join(where, " AND ") + ` ORDER BY origin, key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import stores entries from an export. Existing keys are overwritten.
func (s *SQLiteStore) Import(ctx context.Context, entries []Entry) (int, error) {
	imported := 0
	for _, e := range entries {
		if err := s.Set(ctx, e.Origin, e.Key, e.Value); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
