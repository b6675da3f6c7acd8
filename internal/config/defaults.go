package config

// ModelPreset describes the models used by a provider.
type ModelPreset struct {
	TextModel  string
	ImageModel string
}

var modelPresets = map[ProviderType]ModelPreset{
	ProviderGoogle: {TextModel: "gemini-3-flash-preview", ImageModel: "gemini-2.5-flash-image"},
	ProviderOpenAI: {TextModel: "gpt-4o-mini", ImageModel: "dall-e-3"},
}

// DefaultTopic is the topic loaded when a visitor first opens the page.
const DefaultTopic = "Modern Web Hosting"

// DefaultPlaceholderHost serves the fallback image when generation yields nothing.
const DefaultPlaceholderHost = "picsum.photos"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	preset := GetPreset(ProviderGoogle)
	return &Config{
		Provider:        ProviderGoogle,
		TextModel:       preset.TextModel,
		ImageModel:      preset.ImageModel,
		PlaceholderHost: DefaultPlaceholderHost,
		DefaultTopic:    DefaultTopic,
		OverlapPolicy:   PolicyRejectWhileLoading,
		RequestsPerMin:  30,
		Server: ServerConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		DataDir: ".omnidive",
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the Google preset if the provider is not known.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := modelPresets[provider]; ok {
		return p
	}
	return modelPresets[ProviderGoogle]
}
