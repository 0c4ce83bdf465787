package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractPagesActivity)
	w.RegisterActivity(a.SummarizeDocumentActivity)
	w.RegisterActivity(a.RouteEvidenceActivity)
	w.RegisterActivity(a.NotifyActivity)
	w.RegisterActivity(a.RecordSubmissionActivity)
	w.RegisterActivity(a.SuggestVisionPagesActivity)
	w.RegisterActivity(a.VisionCheckPageActivity)
	w.RegisterActivity(a.RecordErrorActivity)
}
