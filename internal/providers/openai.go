package providers

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"
)

type OpenAIOptions struct {
	KeyAlias     string
	APIKey       string
	BaseURL      string
	SummaryModel string
	RouterModel  string
	VisionModel  string
	Timeout      time.Duration
	Log          *slog.Logger
}

// OpenAIProvider serves all three capabilities through chat/completions.
type OpenAIProvider struct {
	chat         chatClient
	summaryModel string
	routerModel  string
	visionModel  string
}

func NewOpenAIProvider(opts OpenAIOptions) *OpenAIProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		chat:         newChatClient("openai", opts.KeyAlias, opts.APIKey, opts.BaseURL, opts.Timeout, opts.Log),
		summaryModel: firstNonEmpty(opts.SummaryModel, "gpt-4o-mini"),
		routerModel:  firstNonEmpty(opts.RouterModel, "gpt-4o"),
		visionModel:  firstNonEmpty(opts.VisionModel, "gpt-4o"),
	}
}

func (o *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (string, ProviderInfo, error) {
	return o.chat.summarize(ctx, o.summaryModel, req)
}

func (o *OpenAIProvider) Route(ctx context.Context, req RouteRequest) ([]ToolCall, ProviderInfo, error) {
	return o.chat.route(ctx, o.routerModel, req)
}

func (o *OpenAIProvider) ClassifyImage(ctx context.Context, req ImageRequest) (string, ProviderInfo, error) {
	return o.chat.classifyImage(ctx, o.visionModel, req)
}

func resolveOpenAIKey(alias string) string {
	if alias != "" {
		k := os.Getenv("LEASEINTAKE_OPENAI_KEY_" + strings.ToUpper(sanitizeEnvToken(alias)))
		if k != "" {
			return k
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func sanitizeEnvToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}
