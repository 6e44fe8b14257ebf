package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func routingConfig() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {
				APIKeyEnv: "ANTHROPIC_API_KEY",
				Models:    map[string]ModelConfig{"claude-3-haiku-20240307": {MaxTokens: 4096}},
			},
			"openai": {
				APIKeyEnv: "OPENAI_API_KEY",
				Models:    map[string]ModelConfig{"gpt-4o-mini": {MaxTokens: 16384}},
			},
		},
		TaskAssignments: map[string]TaskAssignment{
			"trend_analysis": {
				Primary:  &Candidate{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
				Fallback: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
			},
			"keyword_extraction": {
				Primary: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
			},
		},
	}
}

func TestResolveCandidates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		devMode  bool
		task     TaskType
		expected []Candidate
	}{
		{
			name: "primary then fallback",
			task: TaskTrendAnalysis,
			expected: []Candidate{
				{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
				{Provider: "openai", Model: "gpt-4o-mini"},
			},
		},
		{
			name:     "primary without fallback",
			task:     TaskKeywordExtraction,
			expected: []Candidate{{Provider: "openai", Model: "gpt-4o-mini"}},
		},
		{
			name:     "unassigned task gets default candidate",
			task:     TaskDetailedReport,
			expected: []Candidate{{Provider: "google", Model: "gemini-1.5-flash"}},
		},
		{
			name: "fallback disabled keeps only primary",
			mutate: func(cfg *Config) {
				cfg.Settings.FallbackEnabled = boolPtr(false)
			},
			task:     TaskTrendAnalysis,
			expected: []Candidate{{Provider: "anthropic", Model: "claude-3-haiku-20240307"}},
		},
		{
			name: "development override wins over assignment",
			mutate: func(cfg *Config) {
				cfg.Development = &DevelopmentConfig{
					OverrideAllTo: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
				}
			},
			devMode:  true,
			task:     TaskTrendAnalysis,
			expected: []Candidate{{Provider: "openai", Model: "gpt-4o-mini"}},
		},
		{
			name:    "development mode without override uses assignment",
			devMode: true,
			task:    TaskTrendAnalysis,
			expected: []Candidate{
				{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
				{Provider: "openai", Model: "gpt-4o-mini"},
			},
		},
		{
			name: "override ignored outside development mode",
			mutate: func(cfg *Config) {
				cfg.Development = &DevelopmentConfig{
					OverrideAllTo: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
				}
			},
			task: TaskTrendAnalysis,
			expected: []Candidate{
				{Provider: "anthropic", Model: "claude-3-haiku-20240307"},
				{Provider: "openai", Model: "gpt-4o-mini"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := routingConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			assert.Equal(t, tt.expected, ResolveCandidates(cfg, tt.devMode, tt.task))
		})
	}
}

func TestPrimaryCandidate(t *testing.T) {
	cfg := routingConfig()

	primary, ok := PrimaryCandidate(cfg, TaskTrendAnalysis)
	require.True(t, ok)
	assert.Equal(t, Candidate{Provider: "anthropic", Model: "claude-3-haiku-20240307"}, primary)

	_, ok = PrimaryCandidate(cfg, TaskDetailedReport)
	assert.False(t, ok)
}

func TestPrimaryCandidateIgnoresDevOverride(t *testing.T) {
	cfg := routingConfig()
	cfg.Development = &DevelopmentConfig{
		OverrideAllTo: &Candidate{Provider: "openai", Model: "gpt-4o-mini"},
	}

	// Pricing always reflects the assigned primary, never the override.
	primary, ok := PrimaryCandidate(cfg, TaskTrendAnalysis)
	require.True(t, ok)
	assert.Equal(t, "anthropic", primary.Provider)
}

func TestParseTaskType(t *testing.T) {
	parsed, err := ParseTaskType("sentiment_analysis")
	require.NoError(t, err)
	assert.Equal(t, TaskSentimentAnalysis, parsed)

	_, err = ParseTaskType("clairvoyance")
	assert.Error(t, err)
}
