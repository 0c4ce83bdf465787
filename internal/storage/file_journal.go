package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"leaseintake/internal/util"
)

// FileJournal keeps one JSON Lines file per stream under dir.
type FileJournal struct {
	dir string
	mu  sync.Mutex
}

func NewFileJournal(dir string) *FileJournal {
	return &FileJournal{dir: dir}
}

func (j *FileJournal) path(stream string) string {
	return filepath.Join(j.dir, stream+".jsonl")
}

func (j *FileJournal) Append(ctx context.Context, stream string, record any) error {
	if err := validStream(stream); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := util.AppendJSONLine(j.path(stream), record); err != nil {
		return fmt.Errorf("append %s: %w", stream, err)
	}
	return nil
}

func (j *FileJournal) ReadAll(ctx context.Context, stream string) ([]json.RawMessage, error) {
	if err := validStream(stream); err != nil {
		return nil, err
	}
	f, err := os.Open(j.path(stream))
	if errors.Is(err, os.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", stream, err)
	}
	defer f.Close()

	out := []json.RawMessage{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("%s: corrupt line %d", stream, len(out)+1)
		}
		out = append(out, append(json.RawMessage(nil), line...))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", stream, err)
	}
	return out, nil
}

func (j *FileJournal) Close() error { return nil }
