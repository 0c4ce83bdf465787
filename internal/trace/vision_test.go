package trace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"leaseintake/internal/summarize"

	"github.com/stretchr/testify/require"
)

func flushEntries(t *testing.T, entries ...Entry) string {
	t.Helper()
	rec := NewRecorder(t.TempDir(), "vision", time.Now())
	for _, e := range entries {
		require.NoError(t, rec.Append(e))
	}
	path, _, err := rec.Flush()
	require.NoError(t, err)
	return path
}

func TestSuggestVisionPagesProse(t *testing.T) {
	path := flushEntries(t,
		Entry{Page: 1, Summary: "no signature mentioned"},
		Entry{Page: 2, Summary: "Signature block present on this page"},
		Entry{Page: 3, Summary: "lease dates: 1/1/24-12/31/24"},
	)
	require.Equal(t, []int{2}, SuggestVisionPages(path, nil))
}

func TestSuggestVisionPagesSortedDistinct(t *testing.T) {
	path := flushEntries(t,
		Entry{Page: 1, ChunkIndex: 0, Summary: "Tenant SIGNED the lease."},
		Entry{Page: 1, ChunkIndex: 1, Summary: "Another signature line."},
		Entry{Page: 4, Summary: "Report: missing signature on the addendum."},
		Entry{Page: 5, Summary: "Not signed yet."},
	)
	require.Equal(t, []int{1, 4}, SuggestVisionPages(path, nil))
}

func TestSuggestVisionPagesPrefersAssessment(t *testing.T) {
	path := flushEntries(t,
		Entry{Page: 1, Summary: "Signature field: expected.", Assessment: &summarize.Assessment{HasSignatureField: summarize.No, Gist: "signature mentioned"}},
		Entry{Page: 2, Summary: "nothing", Assessment: &summarize.Assessment{HasSignatureField: summarize.Yes}},
		Entry{Page: 3, Summary: "x", Assessment: &summarize.Assessment{HasSignatureField: summarize.Unknown, Gist: "Lessee signed below."}},
		Entry{Page: 6, Summary: "x", Assessment: &summarize.Assessment{HasSignatureField: summarize.Unknown, Gist: "Rules and fees."}},
	)
	require.Equal(t, []int{2, 3}, SuggestVisionPages(path, nil))
}

func TestSuggestVisionPagesUnreadable(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, []int{}, SuggestVisionPages(filepath.Join(dir, "missing.json"), nil))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	require.Equal(t, []int{}, SuggestVisionPages(bad, nil))
}

func TestMentionsSignature(t *testing.T) {
	cases := map[string]bool{
		"no signature mentioned":                    false,
		"without signature":                         false,
		"The document was not signed.":              false,
		"Missing signature on page 2":               true,
		"Signature block present":                   true,
		"This lease was SIGNATURE-free":             true,
		"lease dates only":                          false,
		"No signature field expected on this page.": false,
	}
	for text, want := range cases {
		require.Equal(t, want, MentionsSignature(text), text)
	}
}
