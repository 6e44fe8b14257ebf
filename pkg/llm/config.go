package llm

import "time"

// Config is the declarative provider/task-assignment document, normally
// loaded from llm_config.yaml. It is treated as immutable once loaded;
// reloads swap in a fresh copy rather than mutating in place.
type Config struct {
	Providers       map[string]ProviderConfig `yaml:"providers" json:"providers"`
	TaskAssignments map[string]TaskAssignment `yaml:"task_assignments" json:"task_assignments"`
	Settings        Settings                  `yaml:"settings" json:"settings"`
	Development     *DevelopmentConfig        `yaml:"development,omitempty" json:"development,omitempty"`
}

// ProviderConfig describes one provider: where to find its credential and
// which models it exposes.
type ProviderConfig struct {
	APIKeyEnv string                 `yaml:"api_key_env" json:"api_key_env"`
	BaseURL   string                 `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Models    map[string]ModelConfig `yaml:"models" json:"models"`
}

// ModelConfig describes a single model offered by a provider.
type ModelConfig struct {
	Description     string   `yaml:"description" json:"description"`
	MaxTokens       int      `yaml:"max_tokens" json:"max_tokens"`
	Temperature     float64  `yaml:"temperature" json:"temperature"`
	CostPer1KTokens float64  `yaml:"cost_per_1k_tokens" json:"cost_per_1k_tokens"`
	UseCases        []string `yaml:"use_cases" json:"use_cases"`
}

// TaskAssignment maps a task type to its primary and optional fallback
// candidate. At most one of each; there is no ranking beyond that order.
type TaskAssignment struct {
	Primary  *Candidate `yaml:"primary" json:"primary"`
	Fallback *Candidate `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Settings holds global orchestration knobs.
type Settings struct {
	RetryAttempts   int   `yaml:"retry_attempts" json:"retry_attempts"`
	TimeoutSeconds  int   `yaml:"timeout_seconds" json:"timeout_seconds"`
	FallbackEnabled *bool `yaml:"fallback_enabled" json:"fallback_enabled"`
}

// DevelopmentConfig pins every task to one candidate while development mode
// is active, so an operator can test against a single cheap model.
type DevelopmentConfig struct {
	OverrideAllTo *Candidate `yaml:"override_all_to,omitempty" json:"override_all_to,omitempty"`
}

// Timeout returns the per-call timeout, defaulting to 60 seconds.
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// FallbackOn reports whether fallback execution is enabled. Absent means
// enabled, matching the document's historical default.
func (s Settings) FallbackOn() bool {
	return s.FallbackEnabled == nil || *s.FallbackEnabled
}

const (
	defaultProviderID = "google"
	defaultModelID    = "gemini-1.5-flash"

	defaultTemperature = 0.7
)

// DefaultConfig is the built-in minimal configuration substituted when the
// declarative document is missing or malformed: a single provider/model, no
// task assignments, fallback enabled.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			defaultProviderID: {
				APIKeyEnv: "GOOGLE_API_KEY",
				Models: map[string]ModelConfig{
					defaultModelID: {
						Description:     "Default model",
						MaxTokens:       8192,
						Temperature:     0.7,
						CostPer1KTokens: 0.0005,
						UseCases:        []string{"all"},
					},
				},
			},
		},
		TaskAssignments: map[string]TaskAssignment{},
		Settings: Settings{
			RetryAttempts:  3,
			TimeoutSeconds: 60,
		},
	}
}

// DefaultCandidate is the global last-resort candidate used when a task has
// no assignment.
func (c *Config) DefaultCandidate() Candidate {
	return Candidate{Provider: defaultProviderID, Model: defaultModelID}
}

// ModelFor looks up the descriptor for a provider/model pair.
func (c *Config) ModelFor(provider, model string) (ModelConfig, bool) {
	pc, ok := c.Providers[provider]
	if !ok {
		return ModelConfig{}, false
	}
	mc, ok := pc.Models[model]
	if !ok {
		return ModelConfig{}, false
	}
	return mc, true
}

// TemperatureFor returns the configured temperature for a model, falling
// back to 0.7 when the descriptor is missing or unset.
func (c *Config) TemperatureFor(provider, model string) float64 {
	if mc, ok := c.ModelFor(provider, model); ok && mc.Temperature > 0 {
		return mc.Temperature
	}
	return defaultTemperature
}

// Assignment returns the task assignment for a task type, if present.
func (c *Config) Assignment(task TaskType) (TaskAssignment, bool) {
	a, ok := c.TaskAssignments[string(task)]
	return a, ok
}

// devOverride returns the development override candidate, if configured.
func (c *Config) devOverride() *Candidate {
	if c.Development == nil {
		return nil
	}
	return c.Development.OverrideAllTo
}
