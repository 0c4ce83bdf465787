package summarize

import (
	"context"
	"log/slog"
	"sort"

	"leaseintake/internal/extract"
	"leaseintake/internal/logging"
	"leaseintake/internal/providers"
	"leaseintake/internal/util"
)

type Summarizer struct {
	provider  providers.Summarizer
	chunkSize int
	log       *slog.Logger
}

func New(provider providers.Summarizer, chunkSize int, log *slog.Logger) *Summarizer {
	if chunkSize < 1 {
		chunkSize = util.DefaultChunkSize
	}
	return &Summarizer{provider: provider, chunkSize: chunkSize, log: logging.OrDefault(log)}
}

// SummarizeChunk makes exactly one model call for c. A failed call yields the
// FailedSummary sentinel instead of an error so the caller can continue.
func (s *Summarizer) SummarizeChunk(ctx context.Context, c Chunk) Result {
	out, info, err := s.provider.Summarize(ctx, providers.SummarizeRequest{
		System: ChunkSystemPrompt,
		Text:   c.Text,
	})
	res := Result{Chunk: c, Provider: info.Name, Model: info.Model}
	if err != nil {
		s.log.Error("summarize.chunk.failed", "page", c.Page, "chunk", c.Index,
			"error_type", providers.ClassifyError(err), "error", err)
		res.Summary = FailedSummary
		res.Failed = true
		res.Error = err.Error()
		return res
	}
	a, perr := ParseAssessment(out)
	if perr != nil {
		s.log.Debug("summarize.chunk.unstructured", "page", c.Page, "chunk", c.Index, "error", perr)
		res.Summary = out
		return res
	}
	res.Assessment = a
	res.Summary = RenderSummary(*a)
	return res
}

// Chunks normalizes every page and slices it, pages ascending.
func (s *Summarizer) Chunks(pages []extract.Page) []Chunk {
	ordered := append([]extract.Page(nil), pages...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })
	var out []Chunk
	for _, p := range ordered {
		text := util.NormalizePageText(p.Text)
		for i, c := range util.ChunkText(text, s.chunkSize) {
			out = append(out, Chunk{Page: p.Number, Index: i, Text: c})
		}
	}
	return out
}

// SummarizeDocument summarizes every chunk of pages sequentially, in page then
// chunk order. Per-chunk failures never stop the walk.
func (s *Summarizer) SummarizeDocument(ctx context.Context, pages []extract.Page) []Result {
	chunks := s.Chunks(pages)
	out := make([]Result, 0, len(chunks))
	failed := 0
	for _, c := range chunks {
		s.log.Debug("summarize.chunk.start", "page", c.Page, "chunk", c.Index)
		r := s.SummarizeChunk(ctx, c)
		if r.Failed {
			failed++
		}
		out = append(out, r)
	}
	s.log.Info("summarize.document.done", "chunks", len(out), "failed", failed)
	return out
}
