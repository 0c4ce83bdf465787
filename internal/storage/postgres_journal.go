package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// PostgresJournal appends records to a shared journal table.
type PostgresJournal struct {
	db *DB
}

func NewPostgresJournal(ctx context.Context, db *DB) (*PostgresJournal, error) {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS journal (
  id          BIGSERIAL PRIMARY KEY,
  stream      TEXT NOT NULL,
  recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  body        JSONB NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS journal_stream_idx ON journal(stream, id)`,
	} {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("migrate postgres journal: %w", err)
		}
	}
	return &PostgresJournal{db: db}, nil
}

func (j *PostgresJournal) Append(ctx context.Context, stream string, record any) error {
	if err := validStream(stream); err != nil {
		return err
	}
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", stream, err)
	}
	if _, err := j.db.Pool.Exec(ctx, `INSERT INTO journal (stream, body) VALUES ($1, $2::jsonb)`, stream, string(b)); err != nil {
		return fmt.Errorf("append %s: %w", stream, err)
	}
	return nil
}

func (j *PostgresJournal) ReadAll(ctx context.Context, stream string) ([]json.RawMessage, error) {
	if err := validStream(stream); err != nil {
		return nil, err
	}
	rows, err := j.db.Pool.Query(ctx, `SELECT body::text FROM journal WHERE stream=$1 ORDER BY id`, stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", stream, err)
	}
	defer rows.Close()
	out := []json.RawMessage{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", stream, err)
		}
		out = append(out, json.RawMessage(body))
	}
	return out, rows.Err()
}

func (j *PostgresJournal) Close() error {
	j.db.Close()
	return nil
}
