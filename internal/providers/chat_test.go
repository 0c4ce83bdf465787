package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenAIRouteDecodesToolCalls(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"check_signature","arguments":"{\"text\":\"signed\"}"}},
			{"id":"call_2","type":"function","function":{"name":"validate_lease_dates","arguments":"{\"text\":\"01/02/2024\"}"}}]}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL, Timeout: time.Second})
	calls, info, err := p.Route(context.Background(), RouteRequest{
		System:       "sys",
		Instructions: "review ticket T-1",
		Content:      "summaries",
		Tools:        []ToolSpec{{Name: "check_signature", Parameters: map[string]any{"type": "object"}}},
	})
	require.NoError(t, err)
	require.Equal(t, "openai", info.Name)
	require.Equal(t, "gpt-4o", info.Model)
	require.Equal(t, []ToolCall{
		{ID: "call_1", Name: "check_signature", Arguments: `{"text":"signed"}`},
		{ID: "call_2", Name: "validate_lease_dates", Arguments: `{"text":"01/02/2024"}`},
	}, calls)
	require.Equal(t, "auto", got["tool_choice"])
	require.Len(t, got["messages"], 3)
}

func TestOpenAISummarizeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit"}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	_, _, err := p.Summarize(context.Background(), SummarizeRequest{System: "s", Text: "t"})
	require.Error(t, err)
	require.Equal(t, ErrorRate, ClassifyError(err))
}

func TestOpenAIMissingKey(t *testing.T) {
	p := NewOpenAIProvider(OpenAIOptions{KeyAlias: "none"})
	_, _, err := p.ClassifyImage(context.Background(), ImageRequest{ImageBase64: "AAAA"})
	require.ErrorContains(t, err, "key missing")
}

func TestOpenAIClassifyImageSendsDataURL(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Yes, a handwritten signature is visible."}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIOptions{APIKey: "k", BaseURL: srv.URL})
	out, _, err := p.ClassifyImage(context.Background(), ImageRequest{System: "s", Question: "q", ImageBase64: "iVBOR"})
	require.NoError(t, err)
	require.Contains(t, out, "signature is visible")
	require.Contains(t, string(body.Messages[1].Content), "data:image/png;base64,iVBOR")
}

func TestOllamaSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"A short gist."}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider("", srv.URL, "", "", time.Second, nil)
	out, info, err := p.Summarize(context.Background(), SummarizeRequest{System: "s", Text: "t"})
	require.NoError(t, err)
	require.Equal(t, "A short gist.", out)
	require.Equal(t, "llama3.1", info.Model)
}
