package llm

import (
	"fmt"
	"net/http"
)

// Options selects and configures a provider. The credential is passed in
// explicitly; providers never read the process environment.
type Options struct {
	Type       string
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	HTTPClient *http.Client
}

// NewProvider creates a new provider based on the given options.
// Supported provider types: "google", "openai".
func NewProvider(opts Options) (Provider, error) {
	switch opts.Type {
	case "google":
		return NewGoogleProvider(GoogleOptions{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			ImageModel: opts.ImageModel,
			BaseURL:    opts.BaseURL,
			HTTPClient: opts.HTTPClient,
		}), nil

	case "openai":
		return NewOpenAIProvider(OpenAIOptions{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			ImageModel: opts.ImageModel,
			BaseURL:    opts.BaseURL,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Type)
	}
}
