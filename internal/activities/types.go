package activities

import (
	"time"

	"leaseintake/internal/extract"
	"leaseintake/internal/models"
	"leaseintake/internal/pipeline"
)

type ExtractPagesInput struct {
	FilePath string `json:"file_path"`
}

type ExtractPagesOutput struct {
	Pages []extract.Page `json:"pages"`
}

type SummarizeDocumentInput struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Pages     []extract.Page `json:"pages"`
}

type RouteEvidenceInput struct {
	TicketID string `json:"ticket_id"`
	Joined   string `json:"joined"`
}

type NotifyInput struct {
	Submission pipeline.Submission `json:"submission"`
	Message    string              `json:"message"`
}

type RecordSubmissionInput struct {
	Submission models.Submission `json:"submission"`
	FilePath   string            `json:"file_path"`
}

type SuggestVisionPagesInput struct {
	TracePath string `json:"trace_path"`
}

type SuggestVisionPagesOutput struct {
	Pages []int `json:"pages"`
}

type VisionCheckPageInput struct {
	FilePath string `json:"file_path"`
	Page     int    `json:"page"`
}

type RecordErrorInput struct {
	Submission pipeline.Submission `json:"submission"`
	RunID      string              `json:"run_id"`
	Stage      string              `json:"stage"`
	Error      string              `json:"error"`
}
