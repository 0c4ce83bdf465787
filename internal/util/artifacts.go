package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func WriteJSONAtomic(path string, v any) error {
	tmp, err := writeTempJSON(path, v)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp json: %w", err)
	}
	return nil
}

// WriteJSONExclusive writes v to path in one step and refuses to replace an
// existing file. Readers never observe a partially written document.
func WriteJSONExclusive(path string, v any) error {
	tmp, err := writeTempJSON(path, v)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrArtifactExists)
		}
		return fmt.Errorf("link temp json: %w", err)
	}
	return nil
}

// AppendJSONLine appends v as a single JSON line. O_APPEND keeps each write
// at the end of the file even when another process appended in between.
func AppendJSONLine(path string, v any) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open jsonl: %w", err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write row: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close jsonl: %w", err)
	}
	return nil
}

func writeTempJSON(path string, v any) (string, error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp json: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("encode json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp json: %w", err)
	}
	return tmp.Name(), nil
}
