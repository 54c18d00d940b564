package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

func TestMessageJSON(t *testing.T) {
	text, err := json.Marshal(Message{Role: RoleUser, Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"hi"}`, string(text))

	parts, err := json.Marshal(Message{Role: RoleUser, Content: []Content{
		TextContent("看看"),
		ImageContent("data:image/png;base64,AA=="),
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":[
		{"type":"text","text":"看看"},
		{"type":"image_url","image_url":{"url":"data:image/png;base64,AA=="}}
	]}`, string(parts))

	var decoded Message
	require.NoError(t, json.Unmarshal(parts, &decoded))
	require.Len(t, decoded.Content, 2)
	assert.Equal(t, "看看", decoded.Content[0].Text)

	require.NoError(t, json.Unmarshal([]byte(`{"role":"assistant","content":null}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"role":"assistant","content":{}}`), &decoded))
}

func TestAIErrorMessage(t *testing.T) {
	err := &AIError{
		OriginalErr:    errors.New("eof"),
		ProviderName:   "gemini",
		ModelName:      "gemini-2.0-flash",
		HTTPStatusCode: 500,
		ErrorCode:      "internal",
		Message:        "failed",
	}
	assert.Equal(t, "500 [gemini:gemini-2.0-flash] failed: eof (code: internal)", err.Error())
	assert.True(t, IsRetryableError(err))
	assert.False(t, IsRetryableError(errors.New("plain")))
}

func TestAIErrorContentPolicy(t *testing.T) {
	err := &AIError{HTTPStatusCode: 400, Message: "Blocked by safety Policy"}
	assert.Equal(t, ErrorTypeContentPolicy, err.ErrorType())
	assert.False(t, err.IsRetryable())
}

func TestParseModelSpec(t *testing.T) {
	provider, model, err := ParseModelSpec("gemini:gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, "gemini-2.5-flash", model)

	for _, spec := range []string{"", "gemini", ":model", "gemini:"} {
		_, _, err := ParseModelSpec(spec)
		assert.ErrorIs(t, err, ErrInvalidModelFormat, spec)
	}
}

func TestRegistryFromConfigSkipsProvidersWithoutKey(t *testing.T) {
	cfg := configWithProviders()
	r := NewProviderRegistryFromConfig(cfg, nil, testLogger())

	assert.Equal(t, []string{"gemini"}, r.Providers())

	p, model, err := r.ResolveModel("gemini:gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-2.0-flash", model)

	_, _, err = r.ResolveModel("openai:gpt-4o")
	assert.ErrorIs(t, err, ErrProviderNotFound)
	_, _, err = r.ResolveModel("gpt-4o")
	assert.ErrorIs(t, err, ErrInvalidModelFormat)
}

func configWithProviders() config.AIConfig {
	return config.AIConfig{Providers: map[string]config.AIProviderConfig{
		"gemini": {APIKey: "g-key", BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai"},
		"openai": {BaseURL: "https://api.openai.com/v1"},
		"exotic": {Type: "anthropic", APIKey: "x"},
	}}
}

func testLogger() logger.Logger {
	return logger.NewTestLogger()
}
