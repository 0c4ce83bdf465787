package pipeline

import (
	"time"

	"leaseintake/internal/decision"
	"leaseintake/internal/evidence"
	"leaseintake/internal/models"
)

// Submission is one document handed to the pipeline.
type Submission struct {
	TicketID      string `json:"ticket_id"`
	FilePath      string `json:"file_path"`
	Filename      string `json:"filename"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	ContactMethod string `json:"contact_method"`
}

type TraceOutput struct {
	Path    string `json:"path"`
	Joined  string `json:"joined"`
	Entries int    `json:"entries"`
	Failed  int    `json:"failed"`
}

type NotifyOutput struct {
	EmailSent bool     `json:"email_sent"`
	SMSSent   bool     `json:"sms_sent"`
	Queued    bool     `json:"callback_queued"`
	Warnings  []string `json:"warnings,omitempty"`
}

type Result struct {
	RunID        string               `json:"run_id"`
	TicketID     string               `json:"ticket_id"`
	Outcome      decision.Outcome     `json:"outcome"`
	Message      string               `json:"message"`
	Evidence     evidence.Result      `json:"evidence"`
	TracePath    string               `json:"trace_path"`
	FlaggedPages []int                `json:"flagged_pages"`
	Vision       []models.VisionCheck `json:"vision,omitempty"`
	Notify       NotifyOutput         `json:"notify"`
	Warnings     []string             `json:"warnings,omitempty"`
	Duration     time.Duration        `json:"duration"`
}

// Stage names used in error records.
const (
	StageValidate  = "validate"
	StageExtract   = "extract"
	StageSummarize = "summarize"
	StageRoute     = "route"
	StageRecord    = "record"
)
