package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS compile_reports (
  id TEXT PRIMARY KEY,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  language TEXT NOT NULL DEFAULT '',
  version TEXT NOT NULL DEFAULT '',
  report JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_compile_reports_created_at ON compile_reports (created_at DESC);
`); err != nil {
		return err
	}
	s.schemaReady = true
	return nil
}

func (s *Store) putDB(ctx context.Context, rec Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	body, err := json.Marshal(rec.Report)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO compile_reports (id, created_at, language, version, report)
VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, rec.CreatedAt, rec.Report.Language, rec.Report.Version, body)
	return err
}

func (s *Store) listDB(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	q := `SELECT id, created_at, report FROM compile_reports ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec  Record
			body []byte
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &body); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &rec.Report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
