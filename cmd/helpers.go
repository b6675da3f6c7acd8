package cmd

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/config"
	"github.com/omnidive/omnidive/internal/content"
	"github.com/omnidive/omnidive/internal/db"
	"github.com/omnidive/omnidive/internal/history"
	"github.com/omnidive/omnidive/internal/image"
	"github.com/omnidive/omnidive/internal/llm"
	"github.com/omnidive/omnidive/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `omnidive init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createLogger builds the process logger. The returned func flushes it.
func createLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, closeFn, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, closeFn, nil
}

// createProviderFromConfig creates the AI provider, rate limited when
// requests_per_minute is set. The API key is resolved here, once.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(llm.Options{
		Type:       string(cfg.Provider),
		APIKey:     cfg.ResolveAPIKey(),
		Model:      cfg.TextModel,
		ImageModel: cfg.ImageModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	if cfg.RequestsPerMin > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMin)
	}
	return provider, nil
}

// createGenerators builds the content and image generators on one provider.
func createGenerators(cfg *config.Config, logger *zap.Logger) (*content.Generator, *image.Generator, error) {
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	cg := content.NewGenerator(provider, cfg.TextModel, logger)
	ig := image.NewGenerator(provider, cfg.ImageModel, cfg.PlaceholderHost, logger)
	return cg, ig, nil
}

// openHistory opens the search history database under the data directory.
func openHistory(cfg *config.Config) (*db.DB, *history.Store, error) {
	path := filepath.Join(cfg.DataDir, "omnidive.db")
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database %s: %w", path, err)
	}
	return database, history.NewStore(database), nil
}
