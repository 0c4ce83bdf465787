package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"leaseintake/internal/config"
	"leaseintake/internal/logging"
)

const (
	StreamSubmissions = "submissions"
	StreamErrors      = "errors"
	StreamCallbacks   = "callbacks"
)

// Journal is an append-only record log split into named streams.
type Journal interface {
	Append(ctx context.Context, stream string, record any) error
	ReadAll(ctx context.Context, stream string) ([]json.RawMessage, error)
	Close() error
}

// Open builds the journal backend named by cfg.JournalBackend.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (Journal, error) {
	logging.OrDefault(log).Info("journal.open", "backend", cfg.JournalBackend)
	switch cfg.JournalBackend {
	case "", "file":
		return NewFileJournal(cfg.LogDir()), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		db, err := NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		j, err := NewPostgresJournal(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return j, nil
	default:
		return nil, fmt.Errorf("unsupported journal backend %q", cfg.JournalBackend)
	}
}

func validStream(stream string) error {
	switch stream {
	case StreamSubmissions, StreamErrors, StreamCallbacks:
		return nil
	default:
		return fmt.Errorf("unknown journal stream %q", stream)
	}
}
