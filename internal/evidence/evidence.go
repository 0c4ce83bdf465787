package evidence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"leaseintake/internal/logging"
	"leaseintake/internal/providers"
	"leaseintake/internal/util"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	ToolCheckSignature     = "check_signature"
	ToolValidateLeaseDates = "validate_lease_dates"
)

var ErrMalformedToolCall = errors.New("malformed tool call")

// datePattern accepts any d/m/y-like triple; it does not check that the
// groups form a calendar date.
var datePattern = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)

type SignatureResult struct {
	IsSigned string `json:"is_signed"`
}

type DateRangeResult struct {
	ValidDateRange bool     `json:"valid_date_range"`
	DatesFound     []string `json:"dates_found"`
}

// Result aggregates every tool call executed for one document.
type Result struct {
	IsSigned       string   `json:"is_signed"`
	ValidDateRange bool     `json:"valid_date_range"`
	DatesFound     []string `json:"dates_found"`
	ToolsCalled    []string `json:"tools_called"`
}

// Called reports whether at least one known tool ran.
func (r Result) Called() bool { return len(r.ToolsCalled) > 0 }

func CheckSignature(text string) SignatureResult {
	if strings.Contains(strings.ToLower(text), "signature") {
		return SignatureResult{IsSigned: "yes"}
	}
	return SignatureResult{IsSigned: "no"}
}

// ValidateLeaseDates reports every date-like token in order of appearance.
// The range is valid when at least two distinct tokens were found.
func ValidateLeaseDates(text string) DateRangeResult {
	found := datePattern.FindAllString(text, -1)
	if found == nil {
		found = []string{}
	}
	distinct := map[string]struct{}{}
	for _, d := range found {
		distinct[d] = struct{}{}
	}
	return DateRangeResult{ValidDateRange: len(distinct) >= 2, DatesFound: found}
}

var textArgSchema = map[string]any{
	"type":       "object",
	"properties": map[string]any{"text": map[string]any{"type": "string"}},
	"required":   []string{"text"},
}

// Tools returns the schemas offered to the routing model.
func Tools() []providers.ToolSpec {
	return []providers.ToolSpec{
		{
			Name:        ToolCheckSignature,
			Description: "Check if the lease text contains a signature.",
			Parameters:  textArgSchema,
		},
		{
			Name:        ToolValidateLeaseDates,
			Description: "Validate the lease date range in the text.",
			Parameters:  textArgSchema,
		},
	}
}

// Executor runs the tool calls a routing model requested.
type Executor struct {
	args *jsonschema.Schema
	log  *slog.Logger
}

func NewExecutor(log *slog.Logger) (*Executor, error) {
	schema, err := util.CompileSchema("tool_args.json", textArgSchema)
	if err != nil {
		return nil, err
	}
	return &Executor{args: schema, log: logging.OrDefault(log)}, nil
}

// Execute runs calls in order. Unknown tools are skipped; arguments that are
// not a JSON object with a string "text" fail the whole batch. Missing tools
// leave the negative defaults in place.
func (x *Executor) Execute(calls []providers.ToolCall) (Result, error) {
	res := Result{IsSigned: "no", DatesFound: []string{}, ToolsCalled: []string{}}
	for _, call := range calls {
		switch call.Name {
		case ToolCheckSignature, ToolValidateLeaseDates:
		default:
			x.log.Warn("evidence.tool.unknown", "tool", call.Name, "call_id", call.ID)
			continue
		}
		text, err := x.decodeArgs(call)
		if err != nil {
			return Result{}, err
		}
		switch call.Name {
		case ToolCheckSignature:
			res.IsSigned = CheckSignature(text).IsSigned
		case ToolValidateLeaseDates:
			d := ValidateLeaseDates(text)
			res.ValidDateRange = d.ValidDateRange
			res.DatesFound = d.DatesFound
		}
		res.ToolsCalled = append(res.ToolsCalled, call.Name)
		x.log.Info("evidence.tool.ok", "tool", call.Name, "call_id", call.ID, "chars", len(text))
	}
	return res, nil
}

func (x *Executor) decodeArgs(call providers.ToolCall) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(call.Arguments), &v); err != nil {
		return "", fmt.Errorf("%s arguments: %v: %w", call.Name, err, ErrMalformedToolCall)
	}
	if err := x.args.Validate(v); err != nil {
		return "", fmt.Errorf("%s arguments: %v: %w", call.Name, err, ErrMalformedToolCall)
	}
	return v.(map[string]any)["text"].(string), nil
}
