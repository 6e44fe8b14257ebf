package config

import (
	"encoding/json"
	"fmt"
)

// Config is the application configuration for the prodscoped daemon. The
// LLM provider/task-assignment document is a separate file referenced by
// LLMConfigPath and owned by pkg/llm.
type Config struct {
	Server    ServerConfig   `json:"server" mapstructure:"server"`
	Logging   LoggingConfig  `json:"logging" mapstructure:"logging"`
	Analysis  AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Janitor   JanitorConfig  `json:"janitor" mapstructure:"janitor"`
	Warehouse string         `json:"warehouse_path" mapstructure:"warehouse_path"`

	LLMConfigPath string `json:"llm_config_path" mapstructure:"llm_config_path"`

	// DevelopmentMode activates the task-routing override from the LLM
	// config's development section.
	DevelopmentMode bool `json:"development_mode" mapstructure:"development_mode"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// AnalysisConfig holds step-runner settings.
type AnalysisConfig struct {
	StepDelaySeconds    int `json:"step_delay_seconds" mapstructure:"step_delay_seconds"`
	StepEstimateSeconds int `json:"step_estimate_seconds" mapstructure:"step_estimate_seconds"`
}

// JanitorConfig holds session sweep settings. Disabled by default: sessions
// live for the process lifetime unless this is switched on.
type JanitorConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Schedule string `json:"schedule" mapstructure:"schedule"`
	TTLHours int    `json:"ttl_hours" mapstructure:"ttl_hours"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Analysis: AnalysisConfig{
			StepDelaySeconds:    3,
			StepEstimateSeconds: 30,
		},
		Janitor: JanitorConfig{
			Enabled:  false,
			Schedule: "*/10 * * * *",
			TTLHours: 24,
		},
		LLMConfigPath: "config/llm_config.yaml",
	}
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.StepDelaySeconds < 0 {
		return fmt.Errorf("step delay cannot be negative")
	}
	if c.Analysis.StepEstimateSeconds <= 0 {
		return fmt.Errorf("step estimate must be positive")
	}
	if c.Janitor.Enabled {
		if c.Janitor.Schedule == "" {
			return fmt.Errorf("janitor schedule is required when the janitor is enabled")
		}
		if c.Janitor.TTLHours <= 0 {
			return fmt.Errorf("janitor ttl must be positive")
		}
	}
	return nil
}
