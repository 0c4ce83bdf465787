package trace

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"leaseintake/internal/logging"
	"leaseintake/internal/summarize"
)

var words = regexp.MustCompile(`[a-z]+`)

var negators = map[string]bool{"no": true, "not": true, "without": true}

// SuggestVisionPages returns the sorted distinct pages of the artifact at path
// whose entries point at a signature. Read or parse failures are logged and
// yield an empty slice.
func SuggestVisionPages(path string, log *slog.Logger) []int {
	log = logging.OrDefault(log)
	entries, err := Load(path)
	if err != nil {
		log.Warn("trace.vision_pages.failed", "path", path, "error", err)
		return []int{}
	}
	pages := FlaggedPages(entries)
	log.Info("trace.vision_pages", "path", path, "entries", len(entries), "pages", pages)
	return pages
}

func FlaggedPages(entries []Entry) []int {
	seen := map[int]struct{}{}
	out := []int{}
	for _, e := range entries {
		if !flagged(e) {
			continue
		}
		if _, ok := seen[e.Page]; ok {
			continue
		}
		seen[e.Page] = struct{}{}
		out = append(out, e.Page)
	}
	sort.Ints(out)
	return out
}

func flagged(e Entry) bool {
	if a := e.Assessment; a != nil {
		switch a.HasSignatureField {
		case summarize.Yes:
			return true
		case summarize.No:
			return false
		default:
			return MentionsSignature(a.Gist)
		}
	}
	return MentionsSignature(e.Summary)
}

// MentionsSignature reports whether text refers to a signature. An occurrence
// directly after "no", "not" or "without" does not count; "missing signature"
// always does.
func MentionsSignature(text string) bool {
	low := strings.ToLower(text)
	if strings.Contains(low, "missing signature") {
		return true
	}
	toks := words.FindAllString(low, -1)
	for i, w := range toks {
		if !strings.Contains(w, "signature") && !strings.Contains(w, "signed") {
			continue
		}
		if i > 0 && negators[toks[i-1]] {
			continue
		}
		return true
	}
	return false
}
