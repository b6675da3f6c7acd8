package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (OMNIDIVE_*). A .env file in the working
// directory, when present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// OMNIDIVE_TEXT_MODEL -> text_model, OMNIDIVE_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider("OMNIDIVE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "OMNIDIVE_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderGoogle: true,
	ProviderOpenAI: true,
}

var validPolicies = map[OverlapPolicy]bool{
	PolicyRejectWhileLoading: true,
	PolicyLatestWins:         true,
}

// Validate checks that the configuration contains valid values. The API key
// is deliberately not checked here; a missing key surfaces on the first call.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai", c.Provider)
	}
	if c.TextModel == "" {
		return fmt.Errorf("text_model is required")
	}
	if c.ImageModel == "" {
		return fmt.Errorf("image_model is required")
	}
	if c.PlaceholderHost == "" {
		return fmt.Errorf("placeholder_host is required")
	}
	if strings.TrimSpace(c.DefaultTopic) == "" {
		return fmt.Errorf("default_topic must not be blank")
	}
	if !validPolicies[c.OverlapPolicy] {
		return fmt.Errorf("invalid overlap_policy %q: must be one of reject, latest", c.OverlapPolicy)
	}
	if c.RequestsPerMin < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGoogle:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// conventional environment variable and then to API_KEY. It is called once
// at startup; the result is passed to provider constructors.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if v := os.Getenv(APIKeyEnvVar(c.Provider)); v != "" {
		return v
	}
	return os.Getenv("API_KEY")
}
