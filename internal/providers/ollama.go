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
)

// OllamaProvider supports local summarization and image checks through the
// Ollama chat API. Example models: llama3.1 for text, llava for images.
type OllamaProvider struct {
	alias       string
	baseURL     string
	model       string
	visionModel string
	client      *http.Client
	log         *slog.Logger
}

func NewOllamaProvider(alias, baseURL, model, visionModel string, timeout time.Duration, log *slog.Logger) *OllamaProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &OllamaProvider{
		alias:       alias,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       firstNonEmpty(model, "llama3.1"),
		visionModel: firstNonEmpty(visionModel, "llava"),
		client:      &http.Client{Timeout: timeout},
		log:         logging.OrDefault(log),
	}
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

func (o *OllamaProvider) Summarize(ctx context.Context, req SummarizeRequest) (string, ProviderInfo, error) {
	return o.chat(ctx, o.model, []ollamaMessage{
		{Role: "system", Content: req.System},
		{Role: "user", Content: req.Text},
	})
}

func (o *OllamaProvider) ClassifyImage(ctx context.Context, req ImageRequest) (string, ProviderInfo, error) {
	if req.ImageBase64 == "" {
		return "", o.info(o.visionModel), fmt.Errorf("ollama vision: empty image")
	}
	return o.chat(ctx, o.visionModel, []ollamaMessage{
		{Role: "system", Content: req.System},
		{Role: "user", Content: req.Question, Images: []string{req.ImageBase64}},
	})
}

func (o *OllamaProvider) chat(ctx context.Context, model string, msgs []ollamaMessage) (string, ProviderInfo, error) {
	payload, err := json.Marshal(map[string]any{
		"model":    model,
		"messages": msgs,
		"stream":   false,
	})
	if err != nil {
		return "", o.info(model), fmt.Errorf("marshal ollama request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", o.info(model), fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", o.info(model), fmt.Errorf("ollama chat request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		o.log.Error("llm.call.status", "provider", "ollama", "model", model, "status", resp.StatusCode)
		return "", o.info(model), &StatusError{Provider: "ollama", Operation: "chat", Code: resp.StatusCode, Body: string(body)}
	}
	var parsed struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", o.info(model), fmt.Errorf("decode ollama chat response: %w", err)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", o.info(model), fmt.Errorf("ollama returned empty message")
	}
	return parsed.Message.Content, o.info(model), nil
}

func (o *OllamaProvider) info(model string) ProviderInfo {
	return ProviderInfo{Name: "ollama", Model: model, Key: o.alias}
}
