package summarize

import (
	"fmt"
	"strings"
)

// FailedSummary replaces the summary of a chunk whose model call failed.
const FailedSummary = "[summarization failed for this chunk]"

const ChunkSystemPrompt = `You are a smart assistant helping to review lease documents page by page.

For each page, do the following:
1. Briefly summarize the content of this page in 2-3 lines.

2. Determine if this page is expected to contain a visible signature field or box:
   - Does it include a space meant for someone to sign?
   - Or does it merely reference signing in the future?
   - If no visual signature field is expected, say so clearly.

3. Determine if this page includes the lease start and end date:
   - If lease dates are present (e.g., move-in/move-out), extract them.
   - If lease duration or date range is not present but should be, say so.
   - If lease dates are not expected here, say that explicitly.

Output STRICT JSON with this schema:
{
  "gist": "2-3 line summary",
  "has_signature_field": "yes|no|unknown",
  "has_date_range": "yes|no|unknown",
  "lease_dates": ["date strings exactly as written"]
}

Rules:
- Use "unknown" when the page does not let you decide.
- lease_dates may be empty.
- Do not wrap the JSON in prose.
`

const RouterSystemPrompt = `You are a document processing assistant for a utility company.
Your job is to verify if a lease or ID document is complete.
You will call tools as needed to:
- Check for signature
- Validate lease dates
- Flag missing info

Respond in a professional tone, clearly guiding the user.
`

const VisionSystemPrompt = "You are an AI assistant helping verify signatures in lease agreements."

const VisionQuestion = "Does this document contain a visible handwritten or digital signature?"

func BuildRouterInstructions(ticketID string) string {
	id := strings.TrimSpace(ticketID)
	if id == "" {
		id = "unassigned"
	}
	return fmt.Sprintf(`Please review this document for ticket ID: %s

Determine if the lease is complete:
- Is it signed?
- Does it contain valid start and end dates?

Output should clearly state if the document is approved or rejected.
`, id)
}

// RenderSummary turns an assessment into the prose kept in the trace.
func RenderSummary(a Assessment) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Gist))
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	switch a.HasSignatureField {
	case Yes:
		b.WriteString("Signature field: expected on this page.")
	case No:
		b.WriteString("Signing block: none on this page.")
	default:
		b.WriteString("Signing block: undetermined.")
	}
	b.WriteString("\n")
	switch a.HasDateRange {
	case Yes:
		b.WriteString("Lease dates: present")
		if len(a.LeaseDates) > 0 {
			b.WriteString(" (" + strings.Join(a.LeaseDates, ", ") + ")")
		}
		b.WriteString(".")
	case No:
		b.WriteString("Lease dates: not present.")
	default:
		b.WriteString("Lease dates: undetermined.")
	}
	return b.String()
}
