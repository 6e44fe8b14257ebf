package llm

import (
	"context"
	"sync"
	"time"

	"github.com/prodscope/prodscope/internal/observability"
	"github.com/rs/zerolog"
)

// Manager ties the registry, router, executor and cost estimator together
// behind one handle. It is safe for concurrent use; Reload swaps the config
// snapshot atomically while in-flight calls keep the one they started with.
type Manager struct {
	mu       sync.RWMutex
	cfg      *Config
	registry *Registry
	devMode  bool
	logger   zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithDevelopmentMode enables the task-routing override from the config's
// development section.
func WithDevelopmentMode(on bool) Option {
	return func(m *Manager) { m.devMode = on }
}

// WithEnvLookup replaces credential resolution, for tests.
func WithEnvLookup(lookup func(string) string) Option {
	return func(m *Manager) { m.registry.lookupEnv = lookup }
}

// WithFactory replaces provider construction, for tests.
func WithFactory(factory Factory) Option {
	return func(m *Manager) { m.registry.factory = factory }
}

// NewManager creates a Manager over a loaded config.
func NewManager(cfg *Config, logger zerolog.Logger, opts ...Option) *Manager {
	observability.EnsureRegistered()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	m := &Manager{
		cfg:      cfg,
		registry: NewRegistry(logger),
		logger:   logger.With().Str("component", "llm-manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reload replaces the config snapshot. Cached clients survive a reload;
// they are keyed by provider:model and remain valid as long as the
// credential they were built with is.
func (m *Manager) Reload(cfg *Config) {
	if cfg == nil {
		return
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	m.logger.Info().Int("providers", len(cfg.Providers)).Msg("LLM config reloaded")
}

// Config returns the current config snapshot.
func (m *Manager) Config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Resolve returns the ordered candidate chain for a task.
func (m *Manager) Resolve(task TaskType) []Candidate {
	return ResolveCandidates(m.Config(), m.devMode, task)
}

// Invoke runs a task's content through the fallback chain and always
// produces a usable result. Candidates whose client cannot be constructed
// are skipped; call failures are soft and advance to the next candidate;
// exhaustion yields the deterministic mock response.
func (m *Manager) Invoke(ctx context.Context, task TaskType, content, systemPrompt string) *Result {
	cfg := m.Config()
	return m.attempt(ctx, cfg, ResolveCandidates(cfg, m.devMode, task), content, systemPrompt)
}

// Converse answers a free-form message outside any task assignment, using
// the development override when active and the global default candidate
// otherwise.
func (m *Manager) Converse(ctx context.Context, message, systemPrompt string) *Result {
	cfg := m.Config()
	candidates := []Candidate{cfg.DefaultCandidate()}
	if m.devMode {
		if o := cfg.devOverride(); o != nil {
			candidates = []Candidate{*o}
		}
	}
	return m.attempt(ctx, cfg, candidates, message, systemPrompt)
}

func (m *Manager) attempt(ctx context.Context, cfg *Config, candidates []Candidate, content, systemPrompt string) *Result {
	for i, cand := range candidates {
		client, ok := m.registry.Get(cfg, cand.Provider, cand.Model)
		if !ok {
			// Not a failure: the candidate is simply unavailable.
			continue
		}

		mc, _ := cfg.ModelFor(cand.Provider, cand.Model)
		request := Request{
			Model:        cand.Model,
			Messages:     []Message{{Role: "user", Content: content}},
			Temperature:  cfg.TemperatureFor(cand.Provider, cand.Model),
			MaxTokens:    mc.MaxTokens,
			SystemPrompt: systemPrompt,
		}

		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, cfg.Settings.Timeout())
		response, err := client.Invoke(callCtx, request)
		cancel()

		if err != nil {
			observability.RecordLLMInvocation(cand.Provider, "error")
			m.logger.Warn().
				Err(err).
				Str("provider", cand.Provider).
				Str("model", cand.Model).
				Dur("elapsed", time.Since(start)).
				Msg("Provider call failed, trying next candidate")
			continue
		}

		observability.RecordLLMInvocation(cand.Provider, "success")
		if i > 0 {
			observability.RecordLLMFallback(cand.Provider)
			m.logger.Info().
				Str("provider", cand.Provider).
				Str("model", cand.Model).
				Msg("Fallback candidate served request")
		}

		model := response.Model
		if model == "" {
			model = cand.Model
		}
		return &Result{
			Content:  response.Content,
			Provider: cand.Provider,
			Model:    model,
			Usage:    response.Usage,
		}
	}

	observability.RecordMockResponse()
	m.logger.Warn().Msg("No provider available, returning mock response")
	return mockResult(content)
}

// Estimate prices a task against its primary candidate: (input + output) /
// 1000 * cost-per-1k. Unassigned or unpriced tasks estimate to zero.
func (m *Manager) Estimate(task TaskType, inputTokens, outputTokens int) float64 {
	cfg := m.Config()
	primary, ok := PrimaryCandidate(cfg, task)
	if !ok {
		return 0
	}
	mc, ok := cfg.ModelFor(primary.Provider, primary.Model)
	if !ok {
		return 0
	}
	return float64(inputTokens+outputTokens) / 1000 * mc.CostPer1KTokens
}

// Providers reports the configured provider inventory.
func (m *Manager) Providers() map[string]ProviderStatus {
	return m.registry.Inventory(m.Config())
}
