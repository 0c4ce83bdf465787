package models

import "time"

const (
	ContactEmail  = "email"
	ContactSMS    = "sms"
	ContactCallMe = "call_me"
)

// Submission is one processed document as recorded in the submission log.
type Submission struct {
	TicketID      string    `json:"ticket_id"`
	RunID         string    `json:"run_id"`
	Filename      string    `json:"filename"`
	FileSHA256    string    `json:"file_sha256,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ContactMethod string    `json:"contact_method"`
	Outcome       string    `json:"outcome"`
	Message       string    `json:"message"`
	ToolsCalled   []string  `json:"tools_called,omitempty"`
	DatesFound    []string  `json:"dates_found,omitempty"`
	TracePath     string    `json:"trace_path"`
	FlaggedPages  []int     `json:"flagged_pages,omitempty"`
	EmailSent     bool      `json:"email_sent"`
	SMSSent       bool      `json:"sms_sent"`
	DurationMS    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

type ErrorRecord struct {
	TicketID  string    `json:"ticket_id"`
	RunID     string    `json:"run_id,omitempty"`
	Filename  string    `json:"filename"`
	Stage     string    `json:"stage"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// CallbackRequest queues a phone follow-up for submitters who chose "call me".
type CallbackRequest struct {
	TicketID  string    `json:"ticket_id"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// VisionCheck is the secondary image-based judgment for one flagged page.
type VisionCheck struct {
	Page     int    `json:"page"`
	Verdict  string `json:"verdict,omitempty"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}
