package util

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSONExclusiveRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "a.json")
	require.NoError(t, WriteJSONExclusive(path, []int{1, 2}))
	err := WriteJSONExclusive(path, []int{3})
	require.ErrorIs(t, err, ErrArtifactExists)

	var got []int
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, []int{1, 2}, got)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "tmp-*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestWriteJSONAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.json")
	require.NoError(t, WriteJSONAtomic(path, map[string]int{"v": 1}))
	require.NoError(t, WriteJSONAtomic(path, map[string]int{"v": 2}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":2}`, string(b))
}

func TestAppendJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "x.jsonl")
	require.NoError(t, AppendJSONLine(path, map[string]string{"a": "1"}))
	require.NoError(t, AppendJSONLine(path, map[string]string{"a": "2"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	s := bufio.NewScanner(f)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	require.Equal(t, []string{`{"a":"1"}`, `{"a":"2"}`}, lines)
}
