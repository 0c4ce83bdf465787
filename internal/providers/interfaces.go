package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type SummarizeRequest struct {
	System string `json:"system"`
	Text   string `json:"text"`
}

// ToolSpec describes a callable tool offered to a routing model. Parameters
// is a JSON schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is one invocation requested by the routing model. Arguments is
// the raw JSON object the model produced.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type RouteRequest struct {
	System       string     `json:"system"`
	Instructions string     `json:"instructions"`
	Content      string     `json:"content"`
	Tools        []ToolSpec `json:"tools"`
}

type ImageRequest struct {
	System      string `json:"system"`
	Question    string `json:"question"`
	ImageBase64 string `json:"image_base64"`
	MIMEType    string `json:"mime_type"`
}

type Summarizer interface {
	Summarize(ctx context.Context, req SummarizeRequest) (string, ProviderInfo, error)
}

type ToolRouter interface {
	Route(ctx context.Context, req RouteRequest) ([]ToolCall, ProviderInfo, error)
}

type ImageClassifier interface {
	ClassifyImage(ctx context.Context, req ImageRequest) (string, ProviderInfo, error)
}
