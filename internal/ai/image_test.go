package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

type fakeImages struct {
	params openai.ImageGenerateParams
	resp   *openai.ImagesResponse
	err    error
}

func (f *fakeImages) Generate(ctx context.Context, body openai.ImageGenerateParams, _ ...option.RequestOption) (*openai.ImagesResponse, error) {
	f.params = body
	return f.resp, f.err
}

var testImageConfig = config.ImageConfig{
	Enabled: true,
	Model:   "dall-e-3",
	Size:    "1024x1024",
	Quality: "standard",
}

func TestImageGeneratorGenerate(t *testing.T) {
	images := &fakeImages{resp: &openai.ImagesResponse{
		Data: []openai.Image{{URL: "https://images.example.com/1.png"}},
	}}
	g := newImageGenerator(images, testImageConfig, time.Second, logger.NewTestLogger())

	url, err := g.Generate(context.Background(), "九份老街的夜景")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/1.png", url)
	assert.Equal(t, "九份老街的夜景", images.params.Prompt)
	assert.Equal(t, openai.ImageModel("dall-e-3"), images.params.Model)
	assert.Equal(t, openai.ImageGenerateParamsSize("1024x1024"), images.params.Size)
}

func TestImageGeneratorEmptyResult(t *testing.T) {
	g := newImageGenerator(&fakeImages{resp: &openai.ImagesResponse{}}, testImageConfig, 0, logger.NewTestLogger())

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestImageGeneratorError(t *testing.T) {
	cause := errors.New("boom")
	g := newImageGenerator(&fakeImages{err: cause}, testImageConfig, 0, logger.NewTestLogger())

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, cause)
	var aiErr *AIError
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, "dall-e-3", aiErr.ModelName)
}

func TestNewImageGeneratorDisabled(t *testing.T) {
	log := logger.NewTestLogger()

	g := NewImageGenerator(config.ImageConfig{Enabled: false}, config.AIConfig{}, nil, log)
	assert.False(t, g.Enabled())

	g = NewImageGenerator(testImageConfig, config.AIConfig{}, nil, log)
	assert.False(t, g.Enabled())
	assert.True(t, log.HasEntryContaining("warn", "no OpenAI API key"))

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrImageGenerationDisabled)
}

func TestNewImageGeneratorWithKey(t *testing.T) {
	aiCfg := config.AIConfig{Providers: map[string]config.AIProviderConfig{
		config.PROVIDER_OPENAI: {APIKey: "sk-test", BaseURL: "https://api.openai.com/v1"},
	}}

	g := NewImageGenerator(testImageConfig, aiCfg, nil, logger.NewTestLogger())
	assert.True(t, g.Enabled())
}
