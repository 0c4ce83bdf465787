package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"leaseintake/internal/summarize"
	"leaseintake/internal/util"
)

const (
	filePrefix = "trace_summary_"
	stampFmt   = "20060102_150405.000000000"
)

var (
	ErrOutOfOrder     = errors.New("trace entry out of page/chunk order")
	ErrAlreadyFlushed = errors.New("trace already flushed")
	ErrNoTrace        = errors.New("no trace artifact found")
)

// Entry binds one chunk to its summary. The first four fields form the
// persisted artifact contract.
type Entry struct {
	Page       int                   `json:"page"`
	ChunkIndex int                   `json:"chunk_index"`
	ChunkText  string                `json:"chunk_text"`
	Summary    string                `json:"summary"`
	Assessment *summarize.Assessment `json:"assessment,omitempty"`
}

func EntryFrom(r summarize.Result) Entry {
	return Entry{
		Page:       r.Chunk.Page,
		ChunkIndex: r.Chunk.Index,
		ChunkText:  r.Chunk.Text,
		Summary:    r.Summary,
		Assessment: r.Assessment,
	}
}

// Recorder accumulates the entries of one run in memory and writes them once.
// It is not safe for concurrent use.
type Recorder struct {
	dir     string
	runID   string
	started time.Time
	entries []Entry
	flushed bool
}

func NewRecorder(dir, runID string, started time.Time) *Recorder {
	return &Recorder{dir: dir, runID: runID, started: started}
}

// Append adds e after the last entry. Entries must arrive page ascending, then
// chunk index ascending.
func (r *Recorder) Append(e Entry) error {
	if r.flushed {
		return ErrAlreadyFlushed
	}
	if n := len(r.entries); n > 0 {
		last := r.entries[n-1]
		if e.Page < last.Page || (e.Page == last.Page && e.ChunkIndex <= last.ChunkIndex) {
			return fmt.Errorf("page %d chunk %d after page %d chunk %d: %w",
				e.Page, e.ChunkIndex, last.Page, last.ChunkIndex, ErrOutOfOrder)
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *Recorder) Len() int { return len(r.entries) }

// Name is the artifact file name this recorder flushes to.
func (r *Recorder) Name() string {
	return ArtifactName(r.started, r.runID)
}

// Flush writes the full ordered entry list as one JSON array and returns its
// path plus all summaries joined by newlines. It never replaces an existing
// artifact.
func (r *Recorder) Flush() (string, string, error) {
	if r.flushed {
		return "", "", ErrAlreadyFlushed
	}
	entries := r.entries
	if entries == nil {
		entries = []Entry{}
	}
	path := filepath.Join(r.dir, r.Name())
	if err := util.WriteJSONExclusive(path, entries); err != nil {
		return "", "", fmt.Errorf("write trace: %w", err)
	}
	r.flushed = true
	return path, JoinSummaries(entries), nil
}

func JoinSummaries(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Summary
	}
	return strings.Join(parts, "\n")
}

// ArtifactName embeds a nanosecond run timestamp and the first eight
// characters of the run id.
func ArtifactName(started time.Time, runID string) string {
	frag := strings.ReplaceAll(runID, "-", "")
	if len(frag) > 8 {
		frag = frag[:8]
	}
	if frag == "" {
		frag = "norunid"
	}
	return filePrefix + started.UTC().Format(stampFmt) + "_" + frag + ".json"
}

func Load(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse trace %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// Latest returns the newest artifact in dir. Names sort chronologically.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.json"))
	if err != nil {
		return "", fmt.Errorf("glob traces: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoTrace)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// Resolve maps an artifact name to a path under dir, rejecting anything that
// is not a bare trace file name.
func Resolve(dir, name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".json") {
		return "", fmt.Errorf("invalid trace name %q", name)
	}
	return util.SafeJoin(dir, name), nil
}
