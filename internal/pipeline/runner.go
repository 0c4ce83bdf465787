package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"leaseintake/internal/decision"
	"leaseintake/internal/evidence"
	"leaseintake/internal/extract"
	"leaseintake/internal/logging"
	"leaseintake/internal/models"
	"leaseintake/internal/notify"
	"leaseintake/internal/providers"
	"leaseintake/internal/storage"
	"leaseintake/internal/summarize"
	"leaseintake/internal/trace"
	"leaseintake/internal/util"

	"github.com/google/uuid"
)

type PageRenderer interface {
	RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error)
}

// Deps carries every collaborator the runner needs. Nothing is global.
type Deps struct {
	Extractor   extract.Extractor
	Summarizer  *summarize.Summarizer
	Router      providers.ToolRouter
	Evidence    *evidence.Executor
	Vision      providers.ImageClassifier
	Renderer    PageRenderer
	Email       notify.EmailSender
	SMS         notify.SMSSender
	Submissions *storage.SubmissionLog
	Errors      *storage.ErrorLog
	Callbacks   *storage.CallbackQueue
	TraceDir    string
	// VisionDir receives one JSON report per vision check when set.
	VisionDir string
	Log       *slog.Logger
	Now       func() time.Time
	NewRunID  func() string
}

// Runner processes one submission at a time, start to finish.
type Runner struct {
	d   Deps
	log *slog.Logger
}

func NewRunner(d Deps) *Runner {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewRunID == nil {
		d.NewRunID = uuid.NewString
	}
	return &Runner{d: d, log: logging.OrDefault(d.Log)}
}

// Validate normalizes s and rejects submissions without a document or a way
// to reach the submitter.
func Validate(s Submission) (Submission, error) {
	s.TicketID = strings.TrimSpace(s.TicketID)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	if strings.TrimSpace(s.FilePath) == "" {
		return s, fmt.Errorf("document is required: %w", util.ErrInvalidSubmission)
	}
	if s.Email == "" && s.Phone == "" {
		return s, fmt.Errorf("email or phone is required: %w", util.ErrInvalidSubmission)
	}
	method := strings.ToLower(strings.TrimSpace(s.ContactMethod))
	method = strings.ReplaceAll(strings.ReplaceAll(method, " ", "_"), "-", "_")
	switch method {
	case "":
		method = models.ContactEmail
	case models.ContactEmail, models.ContactSMS, models.ContactCallMe:
	default:
		return s, fmt.Errorf("contact method %q: %w", s.ContactMethod, util.ErrInvalidSubmission)
	}
	s.ContactMethod = method
	if s.Filename == "" {
		s.Filename = filepath.Base(s.FilePath)
	}
	return s, nil
}

// Run executes every stage for s. Extraction and processing failures are
// recorded to the error log before they are returned.
func (r *Runner) Run(ctx context.Context, s Submission) (Result, error) {
	start := r.d.Now()
	s, err := Validate(s)
	if err != nil {
		return Result{}, err
	}
	runID := r.d.NewRunID()
	res := Result{RunID: runID, TicketID: s.TicketID}
	log := r.log.With("run_id", runID, "ticket_id", s.TicketID)
	log.Info("pipeline.start", "file", s.Filename, "method", s.ContactMethod)

	pages, err := r.Extract(ctx, s.FilePath)
	if err != nil {
		r.RecordError(ctx, s, runID, StageExtract, err)
		if errors.Is(err, util.ErrNoExtractableText) {
			return res, err
		}
		return res, fmt.Errorf("%w: %s: %w", util.ErrProcessingFailed, StageExtract, err)
	}

	tr, err := r.Summarize(ctx, pages, runID, start)
	if err != nil {
		return res, r.fail(ctx, s, runID, StageSummarize, err)
	}
	res.TracePath = tr.Path

	ev, err := r.Route(ctx, s.TicketID, tr.Joined)
	if err != nil {
		return res, r.fail(ctx, s, runID, StageRoute, err)
	}
	res.Evidence = ev
	res.Outcome = decision.FromEvidence(ev)
	res.Message = res.Outcome.Message()
	log.Info("pipeline.decision", "outcome", res.Outcome, "tools", ev.ToolsCalled)

	res.Notify = r.Notify(ctx, s, res.Message)
	res.Warnings = append(res.Warnings, res.Notify.Warnings...)

	res.FlaggedPages = trace.SuggestVisionPages(tr.Path, log)

	res.Duration = r.d.Now().Sub(start)
	sub := models.Submission{
		TicketID:      s.TicketID,
		RunID:         runID,
		Filename:      s.Filename,
		Email:         s.Email,
		Phone:         s.Phone,
		ContactMethod: s.ContactMethod,
		Outcome:       string(res.Outcome),
		Message:       res.Message,
		ToolsCalled:   ev.ToolsCalled,
		DatesFound:    ev.DatesFound,
		TracePath:     tr.Path,
		FlaggedPages:  res.FlaggedPages,
		EmailSent:     res.Notify.EmailSent,
		SMSSent:       res.Notify.SMSSent,
		DurationMS:    res.Duration.Milliseconds(),
		Timestamp:     r.d.Now().UTC(),
	}
	if err := r.RecordSubmission(ctx, sub, s.FilePath); err != nil {
		return res, r.fail(ctx, s, runID, StageRecord, err)
	}

	for _, p := range res.FlaggedPages {
		vc := r.VisionCheck(ctx, s.FilePath, p)
		if vc.Error != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("vision check page %d: %s", p, vc.Error))
		}
		res.Vision = append(res.Vision, vc)
	}
	log.Info("pipeline.done", "outcome", res.Outcome, "flagged_pages", res.FlaggedPages,
		"elapsed_ms", r.d.Now().Sub(start).Milliseconds())
	return res, nil
}

func (r *Runner) fail(ctx context.Context, s Submission, runID, stage string, err error) error {
	r.RecordError(ctx, s, runID, stage, err)
	return fmt.Errorf("%w: %s: %w", util.ErrProcessingFailed, stage, err)
}

// RecordError appends an error record. A failing error log is only logged.
func (r *Runner) RecordError(ctx context.Context, s Submission, runID, stage string, cause error) {
	r.log.Error("pipeline.failed", "run_id", runID, "ticket_id", s.TicketID, "stage", stage, "error", cause)
	if r.d.Errors == nil {
		return
	}
	rec := models.ErrorRecord{
		TicketID:  s.TicketID,
		RunID:     runID,
		Filename:  s.Filename,
		Stage:     stage,
		Error:     cause.Error(),
		Timestamp: r.d.Now().UTC(),
	}
	if err := r.d.Errors.Record(ctx, rec); err != nil {
		r.log.Error("pipeline.error_log.failed", "run_id", runID, "error", err)
	}
}

// RecordSubmission appends sub to the submission log, stamping the document
// hash when the file is still readable.
func (r *Runner) RecordSubmission(ctx context.Context, sub models.Submission, filePath string) error {
	if sub.FileSHA256 == "" && filePath != "" {
		if sum, err := util.FileSHA256(filePath); err == nil {
			sub.FileSHA256 = sum
		}
	}
	if sub.Timestamp.IsZero() {
		sub.Timestamp = r.d.Now().UTC()
	}
	return r.d.Submissions.Record(ctx, sub)
}

// Extract returns the document pages, or ErrNoExtractableText when no page
// carries text.
func (r *Runner) Extract(ctx context.Context, path string) ([]extract.Page, error) {
	pages, err := r.d.Extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}
	if !extract.HasText(pages) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), util.ErrNoExtractableText)
	}
	return pages, nil
}

// Summarize summarizes every chunk and flushes the run's trace artifact.
func (r *Runner) Summarize(ctx context.Context, pages []extract.Page, runID string, started time.Time) (TraceOutput, error) {
	results := r.d.Summarizer.SummarizeDocument(ctx, pages)
	rec := trace.NewRecorder(r.d.TraceDir, runID, started)
	failed := 0
	for _, res := range results {
		if res.Failed {
			failed++
		}
		if err := rec.Append(trace.EntryFrom(res)); err != nil {
			return TraceOutput{}, err
		}
	}
	path, joined, err := rec.Flush()
	if err != nil {
		return TraceOutput{}, err
	}
	r.log.Info("pipeline.trace.written", "run_id", runID, "path", path, "entries", rec.Len(), "failed", failed)
	return TraceOutput{Path: path, Joined: joined, Entries: rec.Len(), Failed: failed}, nil
}

// Route lets the routing model pick evidence tools over the joined summaries
// and executes whichever calls it requested.
func (r *Runner) Route(ctx context.Context, ticketID, joined string) (evidence.Result, error) {
	calls, info, err := r.d.Router.Route(ctx, providers.RouteRequest{
		System:       summarize.RouterSystemPrompt,
		Instructions: summarize.BuildRouterInstructions(ticketID),
		Content:      joined,
		Tools:        evidence.Tools(),
	})
	if err != nil {
		return evidence.Result{}, fmt.Errorf("route via %s: %w", info.Name, err)
	}
	if len(calls) == 0 {
		r.log.Warn("pipeline.route.no_tool_calls", "ticket_id", ticketID, "provider", info.Name)
	}
	return r.d.Evidence.Execute(calls)
}

// Notify delivers message over the submitter's channels. Failures become
// warnings.
func (r *Runner) Notify(ctx context.Context, s Submission, message string) NotifyOutput {
	var out NotifyOutput
	if s.Email != "" && r.d.Email != nil {
		if err := r.d.Email.SendEmail(ctx, s.Email, notify.Subject, message); err != nil {
			r.log.Warn("notify.email.failed", "ticket_id", s.TicketID, "error", err)
			out.Warnings = append(out.Warnings, "email delivery failed")
		} else {
			out.EmailSent = true
		}
	}
	if s.ContactMethod == models.ContactCallMe && r.d.Callbacks != nil {
		err := r.d.Callbacks.Enqueue(ctx, models.CallbackRequest{
			TicketID:  s.TicketID,
			Phone:     s.Phone,
			Status:    message,
			Timestamp: r.d.Now().UTC(),
		})
		if err != nil {
			r.log.Warn("notify.callback.failed", "ticket_id", s.TicketID, "error", err)
			out.Warnings = append(out.Warnings, "callback request could not be queued")
		} else {
			out.Queued = true
		}
	}
	if s.ContactMethod == models.ContactSMS && s.Phone != "" && r.d.SMS != nil {
		to, err := notify.NormalizePhone(s.Phone)
		if err != nil {
			out.Warnings = append(out.Warnings, "phone number is not a valid 10-digit US number")
			return out
		}
		if err := r.d.SMS.SendSMS(ctx, to, message); err != nil {
			r.log.Warn("notify.sms.failed", "ticket_id", s.TicketID, "error", err)
			out.Warnings = append(out.Warnings, "SMS delivery failed")
		} else {
			out.SMSSent = true
		}
	}
	return out
}

// VisionCheck renders one page and asks the image classifier about it.
func (r *Runner) VisionCheck(ctx context.Context, pdfPath string, page int) models.VisionCheck {
	vc := r.classifyPage(ctx, pdfPath, page)
	if r.d.VisionDir != "" {
		stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
		path := filepath.Join(r.d.VisionDir, fmt.Sprintf("%s_page%d.json", stem, page))
		if err := util.WriteJSONAtomic(path, vc); err != nil {
			r.log.Warn("vision.report.failed", "page", page, "error", err)
		}
	}
	return vc
}

func (r *Runner) classifyPage(ctx context.Context, pdfPath string, page int) models.VisionCheck {
	vc := models.VisionCheck{Page: page}
	if r.d.Renderer == nil || r.d.Vision == nil {
		vc.Error = "vision check not configured"
		return vc
	}
	png, err := r.d.Renderer.RenderPage(ctx, pdfPath, page)
	if err != nil {
		vc.Error = err.Error()
		return vc
	}
	verdict, info, err := r.d.Vision.ClassifyImage(ctx, providers.ImageRequest{
		System:      summarize.VisionSystemPrompt,
		Question:    summarize.VisionQuestion,
		ImageBase64: base64.StdEncoding.EncodeToString(png),
		MIMEType:    "image/png",
	})
	vc.Provider = info.Name
	if err != nil {
		vc.Error = err.Error()
		return vc
	}
	vc.Verdict = verdict
	return vc
}
