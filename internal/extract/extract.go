// Package extract turns an uploaded PDF into per-page plain text.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"leaseintake/internal/logging"
	"leaseintake/internal/util"

	"github.com/ledongthuc/pdf"
)

// Page is one unit of source content. Number is 1-based; Text may be empty.
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

type Extractor interface {
	ExtractPages(ctx context.Context, path string) ([]Page, error)
}

// HasText reports whether any page yielded non-blank text.
func HasText(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

type PDFExtractor struct {
	log *slog.Logger
}

func NewPDFExtractor(log *slog.Logger) *PDFExtractor {
	return &PDFExtractor{log: logging.OrDefault(log)}
}

func (e *PDFExtractor) ExtractPages(ctx context.Context, path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(r, i)
		if err != nil {
			e.log.Warn("extract.page.failed", "path", path, "page", i, "error", err)
		}
		pages = append(pages, Page{Number: i, Text: util.SanitizeText(text)})
	}
	e.log.Info("extract.done", "path", path, "pages", n, "has_text", HasText(pages))
	return pages, nil
}

// pageText isolates one page: the pdf package panics on some malformed
// content streams and a bad page must not take down the whole document.
func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", i, rec)
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
