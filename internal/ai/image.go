package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

var ErrImageGenerationDisabled = errors.New("image generation is disabled")

// ImageCreator is the image generation surface used by the text handlers.
type ImageCreator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type imagesAPI interface {
	Generate(ctx context.Context, body openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
}

// ImageGenerator turns a prompt into a hosted image URL.
type ImageGenerator struct {
	images  imagesAPI
	cfg     config.ImageConfig
	timeout time.Duration
	logger  logger.Logger
}

// NewImageGenerator returns nil when generation is disabled or no OpenAI key
// is configured.
func NewImageGenerator(cfg config.ImageConfig, aiCfg config.AIConfig, httpClient *http.Client, log logger.Logger) *ImageGenerator {
	if !cfg.Enabled {
		return nil
	}
	provider := aiCfg.GetProvider(config.PROVIDER_OPENAI)
	if provider == nil || provider.GetAPIKey() == "" {
		log.Warn("Image generation enabled but no OpenAI API key configured")
		return nil
	}

	opts := []option.RequestOption{option.WithAPIKey(provider.GetAPIKey())}
	if provider.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(provider.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)

	return newImageGenerator(&client.Images, cfg, aiCfg.Timeout, log)
}

func newImageGenerator(images imagesAPI, cfg config.ImageConfig, timeout time.Duration, log logger.Logger) *ImageGenerator {
	return &ImageGenerator{
		images:  images,
		cfg:     cfg,
		timeout: timeout,
		logger:  log.WithField("component", "image_generator"),
	}
}

// Enabled reports whether g can serve requests; a nil generator is disabled.
func (g *ImageGenerator) Enabled() bool {
	return g != nil && g.images != nil
}

func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Enabled() {
		return "", ErrImageGenerationDisabled
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(g.cfg.Model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(g.cfg.Size),
		Quality:        openai.ImageGenerateParamsQuality(g.cfg.Quality),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat("url"),
	})
	if err != nil {
		return "", &AIError{
			OriginalErr:  err,
			ProviderName: config.PROVIDER_OPENAI,
			ModelName:    g.cfg.Model,
			Message:      "image generation failed",
		}
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation: %w", ErrEmptyResponse)
	}

	g.logger.WithField("model", g.cfg.Model).Debug("Image generated")
	return resp.Data[0].URL, nil
}
