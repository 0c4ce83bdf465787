package workflows

import (
	"time"

	"leaseintake/internal/decision"
	"leaseintake/internal/models"
	"leaseintake/internal/pipeline"
)

type SubmissionInput struct {
	RunID      string              `json:"run_id"`
	Submission pipeline.Submission `json:"submission"`
	// ActivityTimeout bounds each activity; zero means DefaultActivityTimeout.
	ActivityTimeout time.Duration `json:"activity_timeout"`
}

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusNoText    = "no_text"
)

type SubmissionResult struct {
	RunID        string               `json:"run_id"`
	TicketID     string               `json:"ticket_id"`
	Status       string               `json:"status"`
	Outcome      decision.Outcome     `json:"outcome,omitempty"`
	Message      string               `json:"message"`
	TracePath    string               `json:"trace_path,omitempty"`
	FlaggedPages []int                `json:"flagged_pages"`
	Vision       []models.VisionCheck `json:"vision,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
	DurationMS   int64                `json:"duration_ms"`
}

type SubmissionStatus struct {
	RunID       string            `json:"run_id"`
	TicketID    string            `json:"ticket_id"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Steps       map[string]string `json:"steps"`
}
