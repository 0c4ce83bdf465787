package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"leaseintake/internal/config"
	"leaseintake/internal/export"
	"leaseintake/internal/logging"
	"leaseintake/internal/models"
	"leaseintake/internal/notify"
	"leaseintake/internal/pipeline"
	"leaseintake/internal/storage"
	"leaseintake/internal/trace"
	"leaseintake/internal/util"
	"leaseintake/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

const maxUploadBytes = 64 << 20

type Server struct {
	cfg         config.Config
	temporal    tclient.Client
	submissions *storage.SubmissionLog
	errs        *storage.ErrorLog
	log         *slog.Logger
	newRunID    func() string
}

// NewServer serves reads from journal and hands uploads to the Temporal
// client. A nil client disables POST /submissions.
func NewServer(cfg config.Config, tc tclient.Client, journal storage.Journal, log *slog.Logger) *Server {
	return &Server{
		cfg:         cfg,
		temporal:    tc,
		submissions: storage.NewSubmissionLog(journal),
		errs:        storage.NewErrorLog(journal),
		log:         logging.OrDefault(log),
		newRunID:    uuid.NewString,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/submissions", s.handleSubmissions)
	mux.HandleFunc("/submissions/export.xlsx", s.handleExport)
	mux.HandleFunc("/errors", s.handleErrors)
	mux.HandleFunc("/traces/", s.handleTraces)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		method := strings.TrimSpace(r.URL.Query().Get("method"))
		subs, err := s.submissions.List(r.Context(), method)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if subs == nil {
			subs = []models.Submission{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	fh, ok := firstFile(r.MultipartForm.File, "file")
	if !ok {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no file provided"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("file must be a pdf"))
		return
	}

	runID := s.newRunID()
	sub := pipeline.Submission{
		TicketID:      r.FormValue("ticket_id"),
		FilePath:      filepath.Join(s.cfg.DataInRoot, runID+".pdf"),
		Filename:      filepath.Base(fh.Filename),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		ContactMethod: r.FormValue("contact_method"),
	}
	sub, err := pipeline.Validate(sub)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if sub.Phone != "" {
		if _, err := notify.NormalizePhone(sub.Phone); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
	}
	if s.temporal == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("workflow client unavailable"))
		return
	}
	if err := util.EnsureDir(s.cfg.DataInRoot); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if err := saveUploadedFile(sub.FilePath, fh); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	out, err := s.runWorkflow(r.Context(), runID, sub)
	if err != nil {
		s.log.Error("api.submission.failed", "run_id", runID, "ticket_id", sub.TicketID, "error", err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if out.Status == workflows.StatusNoText {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": map[string]any{
				"code":    "LI-API-4022",
				"message": out.Message,
			},
			"run_id": runID,
		})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) runWorkflow(ctx context.Context, runID string, sub pipeline.Submission) (workflows.SubmissionResult, error) {
	run, err := s.temporal.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                    "submission-" + runID,
		TaskQueue:             s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.SubmissionWorkflow, workflows.SubmissionInput{
		RunID:           runID,
		Submission:      sub,
		ActivityTimeout: s.cfg.ActivityTimeout,
	})
	if err != nil {
		return workflows.SubmissionResult{}, fmt.Errorf("start workflow: %w", err)
	}
	s.log.Info("api.submission.started", "run_id", runID, "workflow_id", run.GetID(), "ticket_id", sub.TicketID)
	var out workflows.SubmissionResult
	if err := run.Get(ctx, &out); err != nil {
		return workflows.SubmissionResult{}, fmt.Errorf("%w: %w", util.ErrProcessingFailed, err)
	}
	return out, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	subs, err := s.submissions.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("method")))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.xlsx"`)
	if err := export.WriteSubmissionsXLSX(w, subs); err != nil {
		s.log.Error("api.export.failed", "error", err)
	}
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	recs, err := s.errs.List(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if recs == nil {
		recs = []models.ErrorRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"errors": recs})
}

// handleTraces serves /traces/{name}/vision-pages, where name may be "latest".
func (s *Server) handleTraces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/traces/"), "/"), "/")
	if len(parts) != 2 || parts[1] != "vision-pages" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	dir := s.cfg.TraceDir()
	var path string
	var err error
	if parts[0] == "latest" {
		path, err = trace.Latest(dir)
	} else {
		path, err = trace.Resolve(dir, parts[0])
	}
	if err != nil {
		if errors.Is(err, trace.ErrNoTrace) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("trace not found"))
		return
	}
	pages := trace.SuggestVisionPages(path, s.log)
	if pages == nil {
		pages = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trace": filepath.Base(path), "pages": pages})
}

func saveUploadedFile(dst string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "upload-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("atomic move upload: %w", err)
	}
	return nil
}

func firstFile(m map[string][]*multipart.FileHeader, field string) (*multipart.FileHeader, bool) {
	if v := m[field]; len(v) > 0 {
		return v[0], true
	}
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "LI-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status == http.StatusServiceUnavailable:
		return apiError{Code: "LI-API-5030", Message: "Processing backend is unavailable. Retry shortly."}
	case status >= 500:
		switch {
		case errors.Is(err, util.ErrProcessingFailed):
			return apiError{
				Code:    "LI-PROC-5001",
				Message: "Document processing failed. The error has been logged.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "LI-DB-5002",
				Message: "Storage connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "LI-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "LI-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "LI-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusMethodNotAllowed:
		code = "LI-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case errors.Is(err, notify.ErrInvalidPhone):
			msg = "Phone number is not valid."
		case strings.Contains(raw, "email or phone is required"):
			msg = "An email address or phone number is required."
		case strings.Contains(raw, "contact method"):
			msg = "Contact method must be email, sms or call_me."
		case strings.Contains(raw, "no file provided"):
			msg = "No PDF file was provided."
		case strings.Contains(raw, "file must be a pdf"):
			msg = "Only PDF documents are accepted."
		case strings.Contains(raw, "invalid trace name"):
			msg = "Trace name is not valid."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
