package pipeline

import (
	"context"
	"log/slog"

	"leaseintake/internal/config"
	"leaseintake/internal/evidence"
	"leaseintake/internal/extract"
	"leaseintake/internal/logging"
	"leaseintake/internal/notify"
	"leaseintake/internal/providers"
	"leaseintake/internal/render"
	"leaseintake/internal/storage"
	"leaseintake/internal/summarize"
)

// FromConfig wires a Runner from cfg. The caller owns the returned journal
// and must close it.
func FromConfig(ctx context.Context, cfg config.Config, log *slog.Logger) (*Runner, storage.Journal, error) {
	log = logging.OrDefault(log)
	pm, err := providers.NewManager(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	exec, err := evidence.NewExecutor(log)
	if err != nil {
		return nil, nil, err
	}
	j, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	email, sms := notify.FromConfig(cfg, log)
	log.Info("pipeline.configured", "providers", pm.Describe(), "journal", cfg.JournalBackend)
	return NewRunner(Deps{
		Extractor:   extract.NewPDFExtractor(log),
		Summarizer:  summarize.New(pm.Summarizer(), cfg.ChunkSize, log),
		Router:      pm.Router(),
		Evidence:    exec,
		Vision:      pm.ImageClassifier(),
		Renderer:    render.NewRenderer(render.ExecRunner{Log: log}, cfg.PdftoppmPath, cfg.RenderDPI),
		Email:       email,
		SMS:         sms,
		Submissions: storage.NewSubmissionLog(j),
		Errors:      storage.NewErrorLog(j),
		Callbacks:   storage.NewCallbackQueue(j),
		TraceDir:    cfg.TraceDir(),
		VisionDir:   cfg.VisionDir(),
		Log:         log,
	}), j, nil
}
