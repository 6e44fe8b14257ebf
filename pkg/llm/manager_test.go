package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider lets tests script call outcomes per provider.
type stubProvider struct {
	name   string
	invoke func(ctx context.Context, req Request) (*Response, error)
	calls  atomic.Int64
}

func (s *stubProvider) Invoke(ctx context.Context, req Request) (*Response, error) {
	s.calls.Add(1)
	return s.invoke(ctx, req)
}

func (s *stubProvider) Name() string { return s.name }

func succeedWith(content string) func(context.Context, Request) (*Response, error) {
	return func(ctx context.Context, req Request) (*Response, error) {
		return &Response{Content: content, Usage: TokenUsage{InputTokens: 10, OutputTokens: 20}}, nil
	}
}

func alwaysFail(ctx context.Context, req Request) (*Response, error) {
	return nil, errors.New("provider unavailable")
}

func allKeysPresent(env string) string { return "sk-test" }

func newTestManager(t *testing.T, cfg *Config, stubs map[string]*stubProvider, opts ...Option) *Manager {
	t.Helper()
	factory := func(name string, pc ProviderConfig, apiKey string) (Provider, error) {
		stub, ok := stubs[name]
		if !ok {
			return nil, errors.New("no stub for provider " + name)
		}
		return stub, nil
	}
	opts = append([]Option{WithEnvLookup(allKeysPresent), WithFactory(factory)}, opts...)
	return NewManager(cfg, zerolog.Nop(), opts...)
}

func TestInvokeUsesPrimary(t *testing.T) {
	primary := &stubProvider{name: "anthropic", invoke: succeedWith("primary answer")}
	fallback := &stubProvider{name: "openai", invoke: succeedWith("fallback answer")}
	m := newTestManager(t, routingConfig(), map[string]*stubProvider{
		"anthropic": primary,
		"openai":    fallback,
	})

	result := m.Invoke(context.Background(), TaskTrendAnalysis, "seasonal demand", "")

	assert.Equal(t, "primary answer", result.Content)
	assert.Equal(t, "anthropic", result.Provider)
	assert.Equal(t, "claude-3-haiku-20240307", result.Model)
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(0), fallback.calls.Load())
}

func TestInvokeFallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "anthropic", invoke: alwaysFail}
	fallback := &stubProvider{name: "openai", invoke: succeedWith("fallback answer")}
	m := newTestManager(t, routingConfig(), map[string]*stubProvider{
		"anthropic": primary,
		"openai":    fallback,
	})

	result := m.Invoke(context.Background(), TaskTrendAnalysis, "seasonal demand", "")

	assert.Equal(t, "fallback answer", result.Content)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(1), fallback.calls.Load())
}

func TestInvokeSkipsUnconstructibleCandidate(t *testing.T) {
	// The primary's credential is absent, so its client is never built; the
	// chain moves on without counting a call failure.
	fallback := &stubProvider{name: "openai", invoke: succeedWith("fallback answer")}
	m := newTestManager(t, routingConfig(),
		map[string]*stubProvider{"openai": fallback},
		WithEnvLookup(func(env string) string {
			if env == "ANTHROPIC_API_KEY" {
				return ""
			}
			return "sk-test"
		}),
	)

	result := m.Invoke(context.Background(), TaskTrendAnalysis, "seasonal demand", "")

	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, int64(1), fallback.calls.Load())
}

func TestInvokeExhaustedReturnsMock(t *testing.T) {
	primary := &stubProvider{name: "anthropic", invoke: alwaysFail}
	fallback := &stubProvider{name: "openai", invoke: alwaysFail}
	m := newTestManager(t, routingConfig(), map[string]*stubProvider{
		"anthropic": primary,
		"openai":    fallback,
	})

	result := m.Invoke(context.Background(), TaskTrendAnalysis, "christmas decorations at walmart", "")

	require.NotNil(t, result)
	assert.Equal(t, "mock", result.Provider)
	assert.Equal(t, "mock-model", result.Model)
	assert.Contains(t, result.Content, "holiday decor")
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(1), fallback.calls.Load())
}

func TestInvokeNoCredentialsAnywhere(t *testing.T) {
	m := newTestManager(t, routingConfig(),
		map[string]*stubProvider{},
		WithEnvLookup(func(string) string { return "" }),
	)

	result := m.Invoke(context.Background(), TaskTrendAnalysis, "anything at all", "")

	require.NotNil(t, result)
	assert.Equal(t, "mock", result.Provider)
}

func TestPlaceholderCredentialTreatedAsAbsent(t *testing.T) {
	m := newTestManager(t, routingConfig(),
		map[string]*stubProvider{},
		WithEnvLookup(func(string) string { return "your_api_key_here" }),
	)

	result := m.Invoke(context.Background(), TaskKeywordExtraction, "extract keywords", "")

	assert.Equal(t, "mock", result.Provider)
}

func TestConverseUsesDefaultCandidate(t *testing.T) {
	cfg := routingConfig()
	cfg.Providers["google"] = ProviderConfig{
		APIKeyEnv: "GOOGLE_API_KEY",
		Models:    map[string]ModelConfig{"gemini-1.5-flash": {MaxTokens: 8192}},
	}
	google := &stubProvider{name: "google", invoke: succeedWith("chat answer")}
	m := newTestManager(t, cfg, map[string]*stubProvider{"google": google})

	result := m.Converse(context.Background(), "hello there", "")

	assert.Equal(t, "google", result.Provider)
	assert.Equal(t, "chat answer", result.Content)
}

func TestConverseHonorsDevOverride(t *testing.T) {
	cfg := routingConfig()
	cfg.Development = &DevelopmentConfig{
		OverrideAllTo: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
	}
	openai := &stubProvider{name: "openai", invoke: succeedWith("override answer")}
	m := newTestManager(t, cfg,
		map[string]*stubProvider{"openai": openai},
		WithDevelopmentMode(true),
	)

	result := m.Converse(context.Background(), "hello there", "")

	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, "override answer", result.Content)
}

func TestReloadSwapsConfig(t *testing.T) {
	m := newTestManager(t, routingConfig(), map[string]*stubProvider{})

	updated := routingConfig()
	updated.TaskAssignments["detailed_report"] = TaskAssignment{
		Primary: &Candidate{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
	}
	m.Reload(updated)

	chain := m.Resolve(TaskDetailedReport)
	require.Len(t, chain, 1)
	assert.Equal(t, "anthropic", chain[0].Provider)

	// A nil reload is a no-op, not a reset.
	m.Reload(nil)
	assert.Equal(t, updated, m.Config())
}

func TestEstimate(t *testing.T) {
	cfg := routingConfig()
	model := cfg.Providers["anthropic"].Models["claude-3-haiku-20240307"]
	model.CostPer1KTokens = 0.00025
	cfg.Providers["anthropic"].Models["claude-3-haiku-20240307"] = model
	m := newTestManager(t, cfg, map[string]*stubProvider{})

	assert.InDelta(t, 0.000375, m.Estimate(TaskTrendAnalysis, 1000, 500), 1e-12)

	// Linearity: doubling both token counts doubles the estimate.
	single := m.Estimate(TaskTrendAnalysis, 800, 200)
	double := m.Estimate(TaskTrendAnalysis, 1600, 400)
	assert.InDelta(t, 2*single, double, 1e-12)

	// Unassigned tasks and zero-token requests both price to zero.
	assert.Zero(t, m.Estimate(TaskDetailedReport, 1000, 500))
	assert.Zero(t, m.Estimate(TaskTrendAnalysis, 0, 0))
}

func TestEstimateIgnoresDevOverride(t *testing.T) {
	cfg := routingConfig()
	model := cfg.Providers["anthropic"].Models["claude-3-haiku-20240307"]
	model.CostPer1KTokens = 0.003
	cfg.Providers["anthropic"].Models["claude-3-haiku-20240307"] = model
	cfg.Development = &DevelopmentConfig{
		OverrideAllTo: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
	}
	m := newTestManager(t, cfg, map[string]*stubProvider{}, WithDevelopmentMode(true))

	assert.InDelta(t, float64(1500)/1000*0.003, m.Estimate(TaskTrendAnalysis, 1000, 500), 1e-12)
}

func TestProvidersInventory(t *testing.T) {
	m := newTestManager(t, routingConfig(), map[string]*stubProvider{},
		WithEnvLookup(func(env string) string {
			if env == "ANTHROPIC_API_KEY" {
				return "sk-live"
			}
			return ""
		}),
	)

	inventory := m.Providers()
	require.Len(t, inventory, 2)
	assert.Equal(t, "available", inventory["anthropic"].Status)
	assert.True(t, inventory["anthropic"].HasKey)
	assert.Equal(t, "missing_api_key", inventory["openai"].Status)
	assert.Equal(t, []string{"gpt-4o-mini"}, inventory["openai"].Models)
}

func TestNewManagerNilConfigUsesDefault(t *testing.T) {
	m := NewManager(nil, zerolog.Nop())
	require.NotNil(t, m.Config())
	assert.Contains(t, m.Config().Providers, "google")
}
