package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"leaseintake/internal/logging"

	"github.com/google/uuid"
)

// chatClient speaks the OpenAI-compatible chat/completions protocol shared by
// the openai and groq providers.
type chatClient struct {
	name    string
	keyName string
	apiKey  string
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func newChatClient(name, keyName, apiKey, baseURL string, timeout time.Duration, log *slog.Logger) chatClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return chatClient{
		name:    name,
		keyName: keyName,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logging.OrDefault(log),
	}
}

func (c chatClient) info(model string) ProviderInfo {
	return ProviderInfo{Name: c.name, Model: model, Key: c.keyName}
}

func (c chatClient) complete(ctx context.Context, operation, model string, body map[string]any) (chatResponse, error) {
	if c.apiKey == "" {
		return chatResponse{}, fmt.Errorf("%s key missing for alias %q", c.name, c.keyName)
	}
	rid := uuid.NewString()
	start := time.Now()
	body["model"] = model
	payload, err := json.Marshal(body)
	if err != nil {
		return chatResponse{}, fmt.Errorf("marshal %s request: %w", c.name, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return chatResponse{}, fmt.Errorf("build %s request: %w", c.name, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Error("llm.call.http_error", "provider", c.name, "op", operation, "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return chatResponse{}, fmt.Errorf("%s %s request failed: %w", c.name, operation, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		se := &StatusError{Provider: c.name, Operation: operation, Code: resp.StatusCode, Body: string(raw)}
		c.log.Error("llm.call.status", "provider", c.name, "op", operation, "req_id", rid, "status", resp.StatusCode,
			"error_type", ClassifyError(se), "elapsed_ms", time.Since(start).Milliseconds())
		return chatResponse{}, se
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return chatResponse{}, fmt.Errorf("decode %s %s response: %w", c.name, operation, err)
	}
	if len(parsed.Choices) == 0 {
		return chatResponse{}, fmt.Errorf("%s returned empty choices", c.name)
	}
	c.log.Info("llm.call.ok", "provider", c.name, "op", operation, "model", model, "req_id", rid,
		"elapsed_ms", time.Since(start).Milliseconds())
	return parsed, nil
}

func (c chatClient) summarize(ctx context.Context, model string, req SummarizeRequest) (string, ProviderInfo, error) {
	parsed, err := c.complete(ctx, "summarize", model, map[string]any{
		"messages": []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Text},
		},
		"temperature": 0.3,
		"max_tokens":  400,
	})
	if err != nil {
		return "", c.info(model), err
	}
	return parsed.Choices[0].Message.Content, c.info(model), nil
}

func (c chatClient) route(ctx context.Context, model string, req RouteRequest) ([]ToolCall, ProviderInfo, error) {
	tools := make([]map[string]any, 0, len(req.Tools))
	for _, t := range req.Tools {
		tools = append(tools, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.Parameters,
			},
		})
	}
	parsed, err := c.complete(ctx, "route", model, map[string]any{
		"messages": []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Instructions},
			{Role: "user", Content: req.Content},
		},
		"tools":       tools,
		"tool_choice": "auto",
		"temperature": 0.5,
	})
	if err != nil {
		return nil, c.info(model), err
	}
	msg := parsed.Choices[0].Message
	calls := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments})
	}
	return calls, c.info(model), nil
}

func (c chatClient) classifyImage(ctx context.Context, model string, req ImageRequest) (string, ProviderInfo, error) {
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	parsed, err := c.complete(ctx, "vision", model, map[string]any{
		"messages": []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: []map[string]any{
				{"type": "text", "text": req.Question},
				{"type": "image_url", "image_url": map[string]string{"url": "data:" + mimeType + ";base64," + req.ImageBase64}},
			}},
		},
		"max_tokens":  300,
		"temperature": 0.2,
	})
	if err != nil {
		return "", c.info(model), err
	}
	return parsed.Choices[0].Message.Content, c.info(model), nil
}
