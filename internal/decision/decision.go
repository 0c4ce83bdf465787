package decision

import "leaseintake/internal/evidence"

type Outcome string

const (
	Approved         Outcome = "approved"
	MissingSignature Outcome = "missing_signature"
	MissingDates     Outcome = "missing_dates"
	Unverifiable     Outcome = "unverifiable"
	NoDetermination  Outcome = "no_determination"
)

var messages = map[Outcome]string{
	Approved:         "✅ Your lease is complete and valid. We will proceed with your account setup.",
	MissingSignature: "❌ Your lease is missing a signature. Please sign and re-upload.",
	MissingDates:     "❌ Your lease appears to be missing valid date ranges (start and end date).",
	Unverifiable:     "⚠️ Unable to verify your lease. Please check and resubmit.",
	NoDetermination:  "⚠️ No determination was made for your lease. Please try again.",
}

// Message is the text sent to the submitter.
func (o Outcome) Message() string {
	if m, ok := messages[o]; ok {
		return m
	}
	return messages[Unverifiable]
}

func (o Outcome) Approved() bool { return o == Approved }

// Decide applies strict precedence: a missing signature outranks a missing
// date range. Any isSigned other than "yes" counts as unsigned.
func Decide(isSigned string, validDateRange bool) Outcome {
	switch {
	case isSigned == "yes" && validDateRange:
		return Approved
	case isSigned != "yes":
		return MissingSignature
	case !validDateRange:
		return MissingDates
	default:
		return Unverifiable
	}
}

// FromEvidence reports NoDetermination when the router requested no tools.
func FromEvidence(res evidence.Result) Outcome {
	if !res.Called() {
		return NoDetermination
	}
	return Decide(res.IsSigned, res.ValidDateRange)
}
