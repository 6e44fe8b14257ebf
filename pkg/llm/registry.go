package llm

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Registry lazily constructs and memoizes one client per provider:model
// pair. Construction failures and missing credentials are never cached, so
// a provider whose key shows up later can still come online.
type Registry struct {
	mu        sync.Mutex
	clients   map[string]Provider
	factory   Factory
	lookupEnv func(string) string
	logger    zerolog.Logger
}

// NewRegistry creates a new client registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		clients:   make(map[string]Provider),
		factory:   NewProvider,
		lookupEnv: os.Getenv,
		logger:    logger.With().Str("component", "llm-registry").Logger(),
	}
}

// Get returns the cached client for the pair, constructing it on first use.
// The second return is false when the pair is unknown to the config, the
// credential is not configured, or construction fails; none of those
// outcomes is recorded, so later calls retry from scratch.
func (r *Registry) Get(cfg *Config, provider, model string) (Provider, bool) {
	key := provider + ":" + model

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, true
	}

	pc, ok := cfg.Providers[provider]
	if !ok {
		r.logger.Warn().Str("provider", provider).Msg("Unknown provider")
		return nil, false
	}
	if _, ok := pc.Models[model]; !ok {
		r.logger.Warn().Str("provider", provider).Str("model", model).Msg("Unknown model")
		return nil, false
	}

	apiKey := r.lookupEnv(pc.APIKeyEnv)
	if !credentialConfigured(apiKey) {
		r.logger.Debug().Str("provider", provider).Str("env", pc.APIKeyEnv).Msg("API key not configured")
		return nil, false
	}

	client, err := r.factory(provider, pc, apiKey)
	if err != nil {
		r.logger.Error().Err(err).Str("provider", provider).Str("model", model).Msg("Failed to construct client")
		return nil, false
	}

	r.clients[key] = client
	r.logger.Info().Str("provider", provider).Str("model", model).Msg("Provider client constructed")
	return client, true
}

// credentialConfigured reports whether a credential value is usable. Empty
// values and the "your_..." placeholders shipped in example env files both
// count as not configured.
func credentialConfigured(value string) bool {
	return value != "" && !strings.HasPrefix(value, "your_")
}

// ProviderStatus summarizes one configured provider for inventory listings.
type ProviderStatus struct {
	Models []string `json:"models"`
	HasKey bool     `json:"has_api_key"`
	Status string   `json:"status"`
}

// Inventory reports every configured provider, its models, and whether its
// credential is present.
func (r *Registry) Inventory(cfg *Config) map[string]ProviderStatus {
	result := make(map[string]ProviderStatus, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		models := make([]string, 0, len(pc.Models))
		for model := range pc.Models {
			models = append(models, model)
		}
		sort.Strings(models)

		hasKey := credentialConfigured(r.lookupEnv(pc.APIKeyEnv))
		status := "available"
		if !hasKey {
			status = "missing_api_key"
		}
		result[name] = ProviderStatus{Models: models, HasKey: hasKey, Status: status}
	}
	return result
}
