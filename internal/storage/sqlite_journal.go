package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"leaseintake/internal/util"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS journal (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  stream      TEXT NOT NULL,
  recorded_at TEXT NOT NULL,
  body        TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS journal_stream_idx ON journal(stream, id)`,
}

// SQLiteJournal stores every stream in one embedded table.
type SQLiteJournal struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteJournal, error) {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite journal: %w", err)
		}
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Append(ctx context.Context, stream string, record any) error {
	if err := validStream(stream); err != nil {
		return err
	}
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", stream, err)
	}
	_, err = j.db.ExecContext(ctx, `INSERT INTO journal (stream, recorded_at, body) VALUES (?, ?, ?)`,
		stream, time.Now().UTC().Format(time.RFC3339Nano), string(b))
	if err != nil {
		return fmt.Errorf("append %s: %w", stream, err)
	}
	return nil
}

func (j *SQLiteJournal) ReadAll(ctx context.Context, stream string) ([]json.RawMessage, error) {
	if err := validStream(stream); err != nil {
		return nil, err
	}
	rows, err := j.db.QueryContext(ctx, `SELECT body FROM journal WHERE stream = ? ORDER BY id`, stream)
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

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
