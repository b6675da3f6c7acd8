package config

// ProviderType identifies a generative AI provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
)

// OverlapPolicy decides what a shell does with a submit that arrives while
// a previous search is still loading.
type OverlapPolicy string

const (
	// PolicyRejectWhileLoading keeps the submit control inert during loading.
	PolicyRejectWhileLoading OverlapPolicy = "reject"
	// PolicyLatestWins starts a new fetch pair and discards older results.
	PolicyLatestWins OverlapPolicy = "latest"
)

// Config is the top-level omnidive configuration, corresponding to .omnidive.yml.
type Config struct {
	Provider        ProviderType  `yaml:"provider" koanf:"provider"`
	APIKey          string        `yaml:"api_key,omitempty" koanf:"api_key"`
	TextModel       string        `yaml:"text_model" koanf:"text_model"`
	ImageModel      string        `yaml:"image_model" koanf:"image_model"`
	PlaceholderHost string        `yaml:"placeholder_host" koanf:"placeholder_host"`
	DefaultTopic    string        `yaml:"default_topic" koanf:"default_topic"`
	OverlapPolicy   OverlapPolicy `yaml:"overlap_policy" koanf:"overlap_policy"`
	RequestsPerMin  int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Server          ServerConfig  `yaml:"server" koanf:"server"`
	Log             LogConfig     `yaml:"log" koanf:"log"`
	DataDir         string        `yaml:"data_dir" koanf:"data_dir"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level      string `yaml:"level" koanf:"level"`
	Format     string `yaml:"format" koanf:"format"` // "json" or "console"
	File       string `yaml:"file,omitempty" koanf:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" koanf:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" koanf:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" koanf:"max_age_days"`
}
