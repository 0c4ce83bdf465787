package activities

import (
	"context"
	"errors"
	"log/slog"

	"leaseintake/internal/evidence"
	"leaseintake/internal/logging"
	"leaseintake/internal/models"
	"leaseintake/internal/pipeline"
	"leaseintake/internal/trace"
	"leaseintake/internal/util"

	"go.temporal.io/sdk/temporal"
)

// Error types carried on application errors so the workflow can tell a
// document without text from other failures.
const (
	ErrTypeNoText         = "NoExtractableText"
	ErrTypeMalformedTools = "MalformedToolCall"
)

type Activities struct {
	runner *pipeline.Runner
	log    *slog.Logger
}

func New(runner *pipeline.Runner, log *slog.Logger) *Activities {
	return &Activities{runner: runner, log: logging.OrDefault(log)}
}

func (a *Activities) ExtractPagesActivity(ctx context.Context, in ExtractPagesInput) (ExtractPagesOutput, error) {
	pages, err := a.runner.Extract(ctx, in.FilePath)
	if err != nil {
		if errors.Is(err, util.ErrNoExtractableText) {
			return ExtractPagesOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNoText, err)
		}
		return ExtractPagesOutput{}, err
	}
	return ExtractPagesOutput{Pages: pages}, nil
}

func (a *Activities) SummarizeDocumentActivity(ctx context.Context, in SummarizeDocumentInput) (pipeline.TraceOutput, error) {
	return a.runner.Summarize(ctx, in.Pages, in.RunID, in.StartedAt)
}

func (a *Activities) RouteEvidenceActivity(ctx context.Context, in RouteEvidenceInput) (evidence.Result, error) {
	res, err := a.runner.Route(ctx, in.TicketID, in.Joined)
	if errors.Is(err, evidence.ErrMalformedToolCall) {
		return evidence.Result{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeMalformedTools, err)
	}
	return res, err
}

func (a *Activities) NotifyActivity(ctx context.Context, in NotifyInput) (pipeline.NotifyOutput, error) {
	return a.runner.Notify(ctx, in.Submission, in.Message), nil
}

func (a *Activities) RecordSubmissionActivity(ctx context.Context, in RecordSubmissionInput) error {
	return a.runner.RecordSubmission(ctx, in.Submission, in.FilePath)
}

func (a *Activities) SuggestVisionPagesActivity(ctx context.Context, in SuggestVisionPagesInput) (SuggestVisionPagesOutput, error) {
	_ = ctx
	return SuggestVisionPagesOutput{Pages: trace.SuggestVisionPages(in.TracePath, a.log)}, nil
}

func (a *Activities) VisionCheckPageActivity(ctx context.Context, in VisionCheckPageInput) (models.VisionCheck, error) {
	return a.runner.VisionCheck(ctx, in.FilePath, in.Page), nil
}

func (a *Activities) RecordErrorActivity(ctx context.Context, in RecordErrorInput) error {
	a.runner.RecordError(ctx, in.Submission, in.RunID, in.Stage, errors.New(in.Error))
	return nil
}
