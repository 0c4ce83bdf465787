package providers

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

// GroqProvider supports summarization and tool routing via Groq's
// OpenAI-compatible API. It has no vision model.
type GroqProvider struct {
	chat  chatClient
	model string
}

func NewGroqProvider(keyAlias, apiKey, baseURL, model string, timeout time.Duration, log *slog.Logger) *GroqProvider {
	if strings.TrimSpace(model) == "" {
		model = "llama-3.1-8b-instant"
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &GroqProvider{
		chat:  newChatClient("groq", keyAlias, apiKey, baseURL, timeout, log),
		model: model,
	}
}

func (g *GroqProvider) Summarize(ctx context.Context, req SummarizeRequest) (string, ProviderInfo, error) {
	return g.chat.summarize(ctx, g.model, req)
}

func (g *GroqProvider) Route(ctx context.Context, req RouteRequest) ([]ToolCall, ProviderInfo, error) {
	return g.chat.route(ctx, g.model, req)
}

func resolveGroqKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("LEASEINTAKE_GROQ_KEY_" + strings.ToUpper(sanitizeEnvToken(alias))); v != "" {
			return v
		}
	}
	return os.Getenv("GROQ_API_KEY")
}
