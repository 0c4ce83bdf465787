package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var mockDate = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)

// MockProvider answers every capability deterministically and without network
// access. Summaries are structured assessments derived from keywords; routing
// always requests both evidence tools over the full content.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (string, ProviderInfo, error) {
	_ = ctx
	low := strings.ToLower(req.Text)
	sig := "no"
	if strings.Contains(low, "signature") || strings.Contains(low, "sign here") || strings.Contains(low, "signed") {
		sig = "yes"
	}
	dates := mockDate.FindAllString(req.Text, -1)
	if dates == nil {
		dates = []string{}
	}
	hasDates := "no"
	if len(dates) >= 2 {
		hasDates = "yes"
	}
	gist := strings.Join(strings.Fields(req.Text), " ")
	if r := []rune(gist); len(r) > 160 {
		gist = string(r[:160]) + "..."
	}
	if gist == "" {
		gist = "Empty chunk."
	}
	b, err := json.Marshal(map[string]any{
		"gist":                gist,
		"has_signature_field": sig,
		"has_date_range":      hasDates,
		"lease_dates":         dates,
	})
	if err != nil {
		return "", mockInfo("mock-summary-v1"), fmt.Errorf("mock summarize: %w", err)
	}
	return string(b), mockInfo("mock-summary-v1"), nil
}

func (m *MockProvider) Route(ctx context.Context, req RouteRequest) ([]ToolCall, ProviderInfo, error) {
	_ = ctx
	args, err := json.Marshal(map[string]string{"text": req.Content})
	if err != nil {
		return nil, mockInfo("mock-router-v1"), fmt.Errorf("mock route: %w", err)
	}
	calls := make([]ToolCall, 0, len(req.Tools))
	for i, t := range req.Tools {
		calls = append(calls, ToolCall{ID: fmt.Sprintf("mock-call-%d", i+1), Name: t.Name, Arguments: string(args)})
	}
	return calls, mockInfo("mock-router-v1"), nil
}

func (m *MockProvider) ClassifyImage(ctx context.Context, req ImageRequest) (string, ProviderInfo, error) {
	_ = ctx
	if req.ImageBase64 == "" {
		return "", mockInfo("mock-vision-v1"), fmt.Errorf("mock vision: empty image")
	}
	return "Mock vision result: image received, no signature judgment made.", mockInfo("mock-vision-v1"), nil
}

func mockInfo(model string) ProviderInfo {
	return ProviderInfo{Name: "mock", Model: model, Key: "mock"}
}
