package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the configuration from file. A missing file yields the default
// config; environment variables prefixed PRODSCOPE override file values.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRODSCOPE")
	v.AutomaticEnv()

	cfg := DefaultConfig()

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
			return cfg, nil
		}

		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if v.IsSet("development_mode") {
		cfg.DevelopmentMode = v.GetBool("development_mode")
	}
	// DEBUG=true is the historical switch for development mode.
	if os.Getenv("DEBUG") == "true" {
		cfg.DevelopmentMode = true
	}

	return cfg, nil
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
