package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"leaseintake/internal/models"
)

// SubmissionLog records every processed document.
type SubmissionLog struct {
	j Journal
}

func NewSubmissionLog(j Journal) *SubmissionLog {
	return &SubmissionLog{j: j}
}

func (l *SubmissionLog) Record(ctx context.Context, s models.Submission) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	return l.j.Append(ctx, StreamSubmissions, s)
}

// List returns submissions newest first. An empty method matches all.
func (l *SubmissionLog) List(ctx context.Context, method string) ([]models.Submission, error) {
	all, err := readTyped[models.Submission](ctx, l.j, StreamSubmissions)
	if err != nil {
		return nil, err
	}
	out := make([]models.Submission, 0, len(all))
	for _, s := range all {
		if method != "" && s.ContactMethod != method {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Timestamp.After(out[k].Timestamp) })
	return out, nil
}

type ErrorLog struct {
	j Journal
}

func NewErrorLog(j Journal) *ErrorLog {
	return &ErrorLog{j: j}
}

func (l *ErrorLog) Record(ctx context.Context, e models.ErrorRecord) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return l.j.Append(ctx, StreamErrors, e)
}

func (l *ErrorLog) List(ctx context.Context) ([]models.ErrorRecord, error) {
	out, err := readTyped[models.ErrorRecord](ctx, l.j, StreamErrors)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Timestamp.After(out[k].Timestamp) })
	return out, nil
}

// CallbackQueue holds pending "call me" follow-ups.
type CallbackQueue struct {
	j Journal
}

func NewCallbackQueue(j Journal) *CallbackQueue {
	return &CallbackQueue{j: j}
}

func (q *CallbackQueue) Enqueue(ctx context.Context, c models.CallbackRequest) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	return q.j.Append(ctx, StreamCallbacks, c)
}

func (q *CallbackQueue) List(ctx context.Context) ([]models.CallbackRequest, error) {
	return readTyped[models.CallbackRequest](ctx, q.j, StreamCallbacks)
}

func readTyped[T any](ctx context.Context, j Journal, stream string) ([]T, error) {
	raw, err := j.ReadAll(ctx, stream)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decode %s record %d: %w", stream, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
