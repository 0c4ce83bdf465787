package activities

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"leaseintake/internal/evidence"
	"leaseintake/internal/extract"
	"leaseintake/internal/models"
	"leaseintake/internal/pipeline"
	"leaseintake/internal/providers"
	"leaseintake/internal/storage"
	"leaseintake/internal/summarize"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
)

type staticExtractor []extract.Page

func (s staticExtractor) ExtractPages(context.Context, string) ([]extract.Page, error) {
	return s, nil
}

type badRouter struct{}

func (badRouter) Route(context.Context, providers.RouteRequest) ([]providers.ToolCall, providers.ProviderInfo, error) {
	return []providers.ToolCall{{Name: evidence.ToolValidateLeaseDates, Arguments: "nope"}}, providers.ProviderInfo{Name: "bad"}, nil
}

func newActivities(t *testing.T, pages []extract.Page, router providers.ToolRouter) (*Activities, storage.Journal, string) {
	t.Helper()
	dir := t.TempDir()
	exec, err := evidence.NewExecutor(nil)
	require.NoError(t, err)
	j := storage.NewFileJournal(filepath.Join(dir, "logs"))
	r := pipeline.NewRunner(pipeline.Deps{
		Extractor:   staticExtractor(pages),
		Summarizer:  summarize.New(providers.NewMockProvider(), 2000, nil),
		Router:      router,
		Evidence:    exec,
		Submissions: storage.NewSubmissionLog(j),
		Errors:      storage.NewErrorLog(j),
		Callbacks:   storage.NewCallbackQueue(j),
		TraceDir:    filepath.Join(dir, "traces"),
	})
	return New(r, nil), j, dir
}

func TestExtractPagesActivityNoText(t *testing.T) {
	a, _, _ := newActivities(t, []extract.Page{{Number: 1}}, providers.NewMockProvider())
	_, err := a.ExtractPagesActivity(context.Background(), ExtractPagesInput{FilePath: "scan.pdf"})
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrTypeNoText, appErr.Type())
	require.True(t, appErr.NonRetryable())
}

func TestSummarizeAndRouteActivities(t *testing.T) {
	pages := []extract.Page{{Number: 1, Text: "Tenant signature here. 01/02/2024 - 01/01/2025"}}
	a, _, _ := newActivities(t, pages, providers.NewMockProvider())
	ctx := context.Background()

	ex, err := a.ExtractPagesActivity(ctx, ExtractPagesInput{FilePath: "lease.pdf"})
	require.NoError(t, err)

	tr, err := a.SummarizeDocumentActivity(ctx, SummarizeDocumentInput{RunID: "abc12345", StartedAt: time.Now(), Pages: ex.Pages})
	require.NoError(t, err)
	require.Equal(t, 1, tr.Entries)
	require.FileExists(t, tr.Path)

	ev, err := a.RouteEvidenceActivity(ctx, RouteEvidenceInput{TicketID: "T", Joined: tr.Joined})
	require.NoError(t, err)
	require.Equal(t, "yes", ev.IsSigned)
	require.True(t, ev.ValidDateRange)

	vp, err := a.SuggestVisionPagesActivity(ctx, SuggestVisionPagesInput{TracePath: tr.Path})
	require.NoError(t, err)
	require.Equal(t, []int{1}, vp.Pages)
}

func TestRouteEvidenceActivityMalformed(t *testing.T) {
	a, _, _ := newActivities(t, nil, badRouter{})
	_, err := a.RouteEvidenceActivity(context.Background(), RouteEvidenceInput{Joined: "x"})
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrTypeMalformedTools, appErr.Type())
}

func TestRecordActivities(t *testing.T) {
	a, j, dir := newActivities(t, nil, providers.NewMockProvider())
	ctx := context.Background()
	doc := filepath.Join(dir, "lease.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("abc"), 0o644))

	require.NoError(t, a.RecordSubmissionActivity(ctx, RecordSubmissionInput{
		Submission: models.Submission{TicketID: "T-1", Outcome: "approved"},
		FilePath:   doc,
	}))
	subs, err := storage.NewSubmissionLog(j).List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", subs[0].FileSHA256)

	require.NoError(t, a.RecordErrorActivity(ctx, RecordErrorInput{
		Submission: pipeline.Submission{TicketID: "T-2", Filename: "x.pdf"},
		Stage:      pipeline.StageSummarize,
		Error:      "boom",
	}))
	errs, err := storage.NewErrorLog(j).List(ctx)
	require.NoError(t, err)
	require.Equal(t, "boom", errs[0].Error)
	require.Equal(t, pipeline.StageSummarize, errs[0].Stage)
}

func TestVisionCheckPageActivityUnconfigured(t *testing.T) {
	a, _, _ := newActivities(t, nil, providers.NewMockProvider())
	vc, err := a.VisionCheckPageActivity(context.Background(), VisionCheckPageInput{FilePath: "x.pdf", Page: 2})
	require.NoError(t, err)
	require.Equal(t, 2, vc.Page)
	require.NotEmpty(t, vc.Error)
}
