package providers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSummarizeIsStructured(t *testing.T) {
	m := NewMockProvider()
	out, info, err := m.Summarize(context.Background(), SummarizeRequest{Text: "Tenant signature below. Term 01/02/2024 to 03/04/2025."})
	require.NoError(t, err)
	require.Equal(t, "mock", info.Name)

	var a struct {
		HasSignatureField string   `json:"has_signature_field"`
		HasDateRange      string   `json:"has_date_range"`
		LeaseDates        []string `json:"lease_dates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Equal(t, "yes", a.HasSignatureField)
	require.Equal(t, "yes", a.HasDateRange)
	require.Equal(t, []string{"01/02/2024", "03/04/2025"}, a.LeaseDates)

	again, _, _ := m.Summarize(context.Background(), SummarizeRequest{Text: "Tenant signature below. Term 01/02/2024 to 03/04/2025."})
	require.Equal(t, out, again)
}

func TestMockRouteRequestsEveryTool(t *testing.T) {
	calls, _, err := NewMockProvider().Route(context.Background(), RouteRequest{
		Content: "doc",
		Tools:   []ToolSpec{{Name: "check_signature"}, {Name: "validate_lease_dates"}},
	})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	require.Equal(t, "validate_lease_dates", calls[1].Name)
	require.JSONEq(t, `{"text":"doc"}`, calls[0].Arguments)
}

func TestMockClassifyImageNeedsImage(t *testing.T) {
	_, _, err := NewMockProvider().ClassifyImage(context.Background(), ImageRequest{})
	require.Error(t, err)
}
