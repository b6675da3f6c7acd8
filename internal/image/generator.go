// Package image turns a topic into a displayable image reference. It never
// fails: when the provider errors or returns nothing it substitutes a
// deterministic placeholder URL.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/llm"
	"github.com/omnidive/omnidive/internal/logging"
)

// ErrEmptyImageResult marks a response that carried no image. It is logged,
// never returned.
var ErrEmptyImageResult = errors.New("image: response contained no image data")

const defaultMIMEType = "image/png"

// Generator asks an image model for one illustration per topic.
type Generator struct {
	provider        llm.Provider
	model           string
	placeholderHost string
	logger          *zap.Logger
}

// NewGenerator creates a Generator. placeholderHost is the host of the
// fallback image service, e.g. "picsum.photos".
func NewGenerator(provider llm.Provider, model, placeholderHost string, logger *zap.Logger) *Generator {
	return &Generator{
		provider:        provider,
		model:           model,
		placeholderHost: placeholderHost,
		logger:          logging.OrNop(logger).Named("image"),
	}
}

// Prompt is the image prompt sent for topic.
func Prompt(topic string) string {
	return fmt.Sprintf("A high-quality, professional, and visually stunning cinematic illustration representing %q. Modern style, clear composition.", topic)
}

// FallbackURL returns the placeholder image for topic on host. The same
// topic always yields the same URL.
func FallbackURL(host, topic string) string {
	return fmt.Sprintf("https://%s/seed/%s/800/400", host, url.PathEscape(topic))
}

// Generate returns a data URI for the first inline image in the response, a
// provider-hosted URL if that is all the response has, or the fallback URL.
func (g *Generator) Generate(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	fallback := FallbackURL(g.placeholderHost, topic)

	resp, err := g.provider.GenerateImage(ctx, llm.ImageRequest{
		Model:  g.model,
		Prompt: Prompt(topic),
	})
	if err != nil {
		g.logger.Warn("image generation failed, using placeholder",
			zap.String("topic", topic), zap.Error(err))
		return fallback
	}

	var hosted string
	for _, img := range resp.Images {
		if len(img.Data) > 0 {
			return DataURI(img)
		}
		if hosted == "" && img.URL != "" {
			hosted = img.URL
		}
	}
	if hosted != "" {
		return hosted
	}

	g.logger.Info("image generation returned nothing, using placeholder",
		zap.String("topic", topic), zap.Error(ErrEmptyImageResult))
	return fallback
}

// DataURI encodes img as a base64 data URI.
func DataURI(img llm.Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = defaultMIMEType
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
