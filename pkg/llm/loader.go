package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// configSchema constrains the shape of the declarative document. Unknown
// providers and tasks are allowed; wrong types are not.
const configSchema = `{
  "type": "object",
  "properties": {
    "providers": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "api_key_env": {"type": "string"},
          "base_url": {"type": "string"},
          "models": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "properties": {
                "description": {"type": "string"},
                "max_tokens": {"type": "integer", "minimum": 1},
                "temperature": {"type": "number", "minimum": 0},
                "cost_per_1k_tokens": {"type": "number", "minimum": 0},
                "use_cases": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        },
        "required": ["api_key_env", "models"]
      }
    },
    "task_assignments": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "primary": {"$ref": "#/definitions/candidate"},
          "fallback": {"$ref": "#/definitions/candidate"}
        }
      }
    },
    "settings": {
      "type": "object",
      "properties": {
        "retry_attempts": {"type": "integer", "minimum": 0},
        "timeout_seconds": {"type": "integer", "minimum": 1},
        "fallback_enabled": {"type": "boolean"}
      }
    },
    "development": {
      "type": "object",
      "properties": {
        "override_all_to": {"$ref": "#/definitions/candidate"}
      }
    }
  },
  "required": ["providers"],
  "definitions": {
    "candidate": {
      "type": "object",
      "properties": {
        "provider": {"type": "string"},
        "model": {"type": "string"}
      },
      "required": ["provider", "model"]
    }
  }
}`

// LoadConfig reads the declarative provider/task-assignment document from
// path. Any failure (missing file, YAML error, schema violation) degrades to
// the built-in default config rather than surfacing an error: a broken
// document must never take the service down.
func LoadConfig(path string, logger zerolog.Logger) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("LLM config not readable, using built-in default")
		return DefaultConfig()
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("LLM config invalid, using built-in default")
		return DefaultConfig()
	}
	logger.Info().
		Str("path", path).
		Int("providers", len(cfg.Providers)).
		Int("assignments", len(cfg.TaskAssignments)).
		Msg("LLM config loaded")
	return cfg
}

// ParseConfig parses and shape-checks a raw YAML document.
func ParseConfig(data []byte) (*Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateShape(doc); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("config declares no providers")
	}
	return &cfg, nil
}

// validateShape runs the parsed document through the JSON schema.
func validateShape(doc interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("config schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
