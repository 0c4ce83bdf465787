package workflows

import (
	"errors"
	"fmt"
	"time"

	"leaseintake/internal/activities"
	"leaseintake/internal/decision"
	"leaseintake/internal/evidence"
	"leaseintake/internal/models"
	"leaseintake/internal/pipeline"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetSubmissionStatus = "GetSubmissionStatus"

// ErrTypeProcessingFailed tags the workflow failure returned for any fatal
// stage error.
const ErrTypeProcessingFailed = "ProcessingFailed"

// DefaultActivityTimeout applies when the caller passes no timeout.
const DefaultActivityTimeout = 30 * time.Minute

// SubmissionWorkflow runs one document through every stage in order. Model
// calls are never retried.
func SubmissionWorkflow(ctx workflow.Context, input SubmissionInput) (SubmissionResult, error) {
	sub := input.Submission
	status := SubmissionStatus{
		RunID:       input.RunID,
		TicketID:    sub.TicketID,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetSubmissionStatus, func() (SubmissionStatus, error) {
		return status, nil
	}); err != nil {
		return SubmissionResult{}, err
	}

	timeout := input.ActivityTimeout
	if timeout <= 0 {
		timeout = DefaultActivityTimeout
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	started := workflow.Now(ctx)
	out := SubmissionResult{RunID: input.RunID, TicketID: sub.TicketID, FlaggedPages: []int{}}

	begin := func(step string) {
		status.CurrentStep = step
		status.Steps[step] = "processing"
	}
	done := func() { status.Steps[status.CurrentStep] = "done" }
	fail := func(stage string, err error) (SubmissionResult, error) {
		status.Status = "failed"
		status.FailReason = err.Error()
		status.Steps[status.CurrentStep] = "failed"
		_ = workflow.ExecuteActivity(ctx, "RecordErrorActivity", activities.RecordErrorInput{
			Submission: sub,
			RunID:      input.RunID,
			Stage:      stage,
			Error:      err.Error(),
		}).Get(ctx, nil)
		return SubmissionResult{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("document processing failed at %s", stage), ErrTypeProcessingFailed, err)
	}

	begin(pipeline.StageExtract)
	var pagesOut activities.ExtractPagesOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractPagesActivity", activities.ExtractPagesInput{FilePath: sub.FilePath}).Get(ctx, &pagesOut); err != nil {
		if isNoTextError(err) {
			status.Status = StatusNoText
			status.FailReason = "no extractable text found in PDF"
			status.Steps[status.CurrentStep] = "failed"
			_ = workflow.ExecuteActivity(ctx, "RecordErrorActivity", activities.RecordErrorInput{
				Submission: sub,
				RunID:      input.RunID,
				Stage:      pipeline.StageExtract,
				Error:      status.FailReason,
			}).Get(ctx, nil)
			out.Status = StatusNoText
			out.Message = "No extractable text was found in the uploaded document. Please upload a text-based PDF."
			return out, nil
		}
		return fail(pipeline.StageExtract, err)
	}
	done()

	begin(pipeline.StageSummarize)
	var tr pipeline.TraceOutput
	if err := workflow.ExecuteActivity(ctx, "SummarizeDocumentActivity", activities.SummarizeDocumentInput{
		RunID:     input.RunID,
		StartedAt: started,
		Pages:     pagesOut.Pages,
	}).Get(ctx, &tr); err != nil {
		return fail(pipeline.StageSummarize, err)
	}
	out.TracePath = tr.Path
	done()

	begin(pipeline.StageRoute)
	var ev evidence.Result
	if err := workflow.ExecuteActivity(ctx, "RouteEvidenceActivity", activities.RouteEvidenceInput{
		TicketID: sub.TicketID,
		Joined:   tr.Joined,
	}).Get(ctx, &ev); err != nil {
		return fail(pipeline.StageRoute, err)
	}
	out.Outcome = decision.FromEvidence(ev)
	out.Message = out.Outcome.Message()
	done()

	begin("notify")
	var nt pipeline.NotifyOutput
	if err := workflow.ExecuteActivity(ctx, "NotifyActivity", activities.NotifyInput{Submission: sub, Message: out.Message}).Get(ctx, &nt); err != nil {
		out.Warnings = append(out.Warnings, "notification failed")
		status.Steps[status.CurrentStep] = "failed"
	} else {
		out.Warnings = append(out.Warnings, nt.Warnings...)
		done()
	}

	begin("suggest_vision_pages")
	var vp activities.SuggestVisionPagesOutput
	if err := workflow.ExecuteActivity(ctx, "SuggestVisionPagesActivity", activities.SuggestVisionPagesInput{TracePath: tr.Path}).Get(ctx, &vp); err == nil && vp.Pages != nil {
		out.FlaggedPages = vp.Pages
	}
	done()

	begin(pipeline.StageRecord)
	out.DurationMS = workflow.Now(ctx).Sub(started).Milliseconds()
	record := models.Submission{
		TicketID:      sub.TicketID,
		RunID:         input.RunID,
		Filename:      sub.Filename,
		Email:         sub.Email,
		Phone:         sub.Phone,
		ContactMethod: sub.ContactMethod,
		Outcome:       string(out.Outcome),
		Message:       out.Message,
		ToolsCalled:   ev.ToolsCalled,
		DatesFound:    ev.DatesFound,
		TracePath:     tr.Path,
		FlaggedPages:  out.FlaggedPages,
		EmailSent:     nt.EmailSent,
		SMSSent:       nt.SMSSent,
		DurationMS:    out.DurationMS,
		Timestamp:     workflow.Now(ctx).UTC(),
	}
	if err := workflow.ExecuteActivity(ctx, "RecordSubmissionActivity", activities.RecordSubmissionInput{
		Submission: record,
		FilePath:   sub.FilePath,
	}).Get(ctx, nil); err != nil {
		return fail(pipeline.StageRecord, err)
	}
	done()

	begin("vision_check")
	for _, page := range out.FlaggedPages {
		var vc models.VisionCheck
		if err := workflow.ExecuteActivity(ctx, "VisionCheckPageActivity", activities.VisionCheckPageInput{FilePath: sub.FilePath, Page: page}).Get(ctx, &vc); err != nil {
			vc = models.VisionCheck{Page: page, Error: err.Error()}
		}
		if vc.Error != "" {
			out.Warnings = append(out.Warnings, fmt.Sprintf("vision check page %d: %s", page, vc.Error))
		}
		out.Vision = append(out.Vision, vc)
	}
	done()

	status.Status = StatusCompleted
	out.Status = StatusCompleted
	return out, nil
}

func isNoTextError(err error) bool {
	var appErr *temporal.ApplicationError
	return errors.As(err, &appErr) && appErr.Type() == activities.ErrTypeNoText
}
