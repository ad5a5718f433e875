package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string        `json:"db_path"`
	DBSizeBytes  int64         `json:"db_size_bytes"`
	TotalEntries int           `json:"total_entries"`
	Origins      []OriginStats `json:"origins"`
}

// OriginStats holds per-origin counts.
type OriginStats struct {
	Origin string `json:"origin"`
	Keys   int    `json:"keys"`
	Bytes  int    `json:"bytes"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&st.TotalEntries)

	rows, err := s.db.QueryContext(ctx, `
		SELECT origin, COUNT(*) AS keys, COALESCE(SUM(LENGTH(value)), 0) AS bytes
		FROM kv GROUP BY origin ORDER BY keys DESC, origin`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var o OriginStats
		rows.Scan(&o.Origin, &o.Keys, &o.Bytes)
		st.Origins = append(st.Origins, o)
	}

	return st, rows.Err()
}
