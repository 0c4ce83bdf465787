package summarize

// TriState is a model judgment that may be undecided.
type TriState string

const (
	Yes     TriState = "yes"
	No      TriState = "no"
	Unknown TriState = "unknown"
)

func (t TriState) Valid() bool {
	switch t {
	case Yes, No, Unknown:
		return true
	default:
		return false
	}
}

// Assessment is the structured record a chunk summary is parsed into.
type Assessment struct {
	Gist              string   `json:"gist"`
	HasSignatureField TriState `json:"has_signature_field"`
	HasDateRange      TriState `json:"has_date_range"`
	LeaseDates        []string `json:"lease_dates,omitempty"`
}

// Chunk is one bounded slice of a page's normalized text.
type Chunk struct {
	Page  int    `json:"page"`
	Index int    `json:"chunk_index"`
	Text  string `json:"chunk_text"`
}

// Result is the outcome of summarizing one chunk. A failed call still yields
// a Result carrying the failure sentinel as its summary.
type Result struct {
	Chunk      Chunk       `json:"chunk"`
	Summary    string      `json:"summary"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Failed     bool        `json:"failed,omitempty"`
	Error      string      `json:"error,omitempty"`
	Provider   string      `json:"provider,omitempty"`
	Model      string      `json:"model,omitempty"`
}
