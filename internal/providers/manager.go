package providers

import (
	"fmt"
	"log/slog"
	"strings"

	"leaseintake/internal/config"
)

// Manager resolves the configured provider lists into one implementation per
// capability. The first listed provider able to serve a capability wins.
type Manager struct {
	summarizer    Summarizer
	summaryRef    ProviderRef
	router        ToolRouter
	routerRef     ProviderRef
	classifier    ImageClassifier
	classifierRef ProviderRef
}

func NewManager(cfg config.Config, log *slog.Logger) (*Manager, error) {
	m := &Manager{}
	var err error
	if m.summarizer, m.summaryRef, err = pick[Summarizer](cfg, cfg.SummaryProviders, "summarization", log); err != nil {
		return nil, err
	}
	if m.router, m.routerRef, err = pick[ToolRouter](cfg, cfg.RouterProviders, "tool routing", log); err != nil {
		return nil, err
	}
	if m.classifier, m.classifierRef, err = pick[ImageClassifier](cfg, cfg.VisionProviders, "image classification", log); err != nil {
		return nil, err
	}
	return m, nil
}

// pick returns the first provider in list implementing T.
func pick[T any](cfg config.Config, list, capability string, log *slog.Logger) (T, ProviderRef, error) {
	var zero T
	for _, ref := range ParseProviderList(list) {
		p, err := buildProvider(cfg, ref, log)
		if err != nil {
			return zero, ProviderRef{}, err
		}
		if impl, ok := p.(T); ok {
			return impl, ref, nil
		}
	}
	return zero, ProviderRef{}, fmt.Errorf("no provider in %q supports %s", list, capability)
}

func (m *Manager) Summarizer() Summarizer { return m.summarizer }

func (m *Manager) Router() ToolRouter { return m.router }

func (m *Manager) ImageClassifier() ImageClassifier { return m.classifier }

func (m *Manager) Describe() map[string]string {
	return map[string]string{
		"summarize": m.summaryRef.Raw,
		"route":     m.routerRef.Raw,
		"vision":    m.classifierRef.Raw,
	}
}

func buildProvider(cfg config.Config, ref ProviderRef, log *slog.Logger) (any, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "openai":
		return NewOpenAIProvider(OpenAIOptions{
			KeyAlias:     ref.KeyAlias,
			APIKey:       resolveOpenAIKey(ref.KeyAlias),
			BaseURL:      cfg.OpenAIBaseURL,
			SummaryModel: cfg.OpenAISummaryModel,
			RouterModel:  cfg.OpenAIRouterModel,
			VisionModel:  cfg.OpenAIVisionModel,
			Timeout:      cfg.ProviderTimeout,
			Log:          log,
		}), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias, resolveGroqKey(ref.KeyAlias), cfg.GroqBaseURL, cfg.GroqModel, cfg.ProviderTimeout, log), nil
	case "ollama":
		return NewOllamaProvider(ref.KeyAlias, cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaVisionModel, cfg.ProviderTimeout, log), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
