package util

import (
	"regexp"
	"strings"
)

var (
	reBlankLines     = regexp.MustCompile(`\n{2,}`)
	rePageOf         = regexp.MustCompile(`(?i)page \d+ of \d+`)
	reContinued      = regexp.MustCompile(`(?i)continued on next page`)
	reWatermarkLine  = regexp.MustCompile(`(?m)^[ \t]*(?:Document|Signature|Timestamp|MediaBox|CropBox)\b[^\n]*\n?`)
	reHorizontalRuns = regexp.MustCompile(`[ \t]{2,}`)
	reBarePageNumber = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)
	reShoutedLine    = regexp.MustCompile(`(?m)^[A-Z \t]{15,}$`)
)

// NormalizePageText strips header, footer and watermark artifacts from the
// raw text of one extracted page. The pass order is fixed: later patterns
// assume earlier collapsing already happened. Passes repeat until the text
// stops changing; each pass only deletes or shortens, so the loop ends and
// NormalizePageText(NormalizePageText(s)) == NormalizePageText(s).
func NormalizePageText(raw string) string {
	text := SanitizeText(raw)
	for {
		next := normalizePass(text)
		if next == text {
			return next
		}
		text = next
	}
}

func normalizePass(text string) string {
	text = reBlankLines.ReplaceAllString(text, "\n")
	text = rePageOf.ReplaceAllString(text, "")
	text = reContinued.ReplaceAllString(text, "")
	text = reWatermarkLine.ReplaceAllString(text, "")
	text = reHorizontalRuns.ReplaceAllString(text, " ")
	text = reBarePageNumber.ReplaceAllString(text, "")
	text = reShoutedLine.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
