package llm

import (
	"context"
	"fmt"
)

// Provider is the single capability the orchestration layer needs from an
// external model: invoke it with messages and get text plus usage back.
// Concrete adapters exist per provider; the router and executor depend only
// on this interface.
type Provider interface {
	// Invoke makes one model call.
	Invoke(ctx context.Context, request Request) (*Response, error)

	// Name returns the provider identifier (e.g. "anthropic").
	Name() string
}

// Factory constructs a provider client from its configuration and credential.
type Factory func(name string, pc ProviderConfig, apiKey string) (Provider, error)

// defaultBaseURLs covers the OpenAI-compatible providers we know how to
// reach without an explicit base_url in the config document.
var defaultBaseURLs = map[string]string{
	"google":   "https://generativelanguage.googleapis.com/v1beta/openai/",
	"xai":      "https://api.x.ai/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"moonshot": "https://api.moonshot.cn/v1",
}

// NewProvider creates a provider client. Anthropic and OpenAI use their
// native SDKs; everything else goes through the OpenAI-compatible adapter
// and needs a base URL, either configured or built in.
func NewProvider(name string, pc ProviderConfig, apiKey string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		baseURL := pc.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURLs[name]
		}
		if baseURL == "" {
			return nil, fmt.Errorf("unsupported provider: %s", name)
		}
		return NewCompatProvider(name, apiKey, baseURL), nil
	}
}
