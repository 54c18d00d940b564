package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaohua-travel/linebot/internal/config"
)

func baseValues(t *testing.T) map[string]any {
	t.Helper()
	return map[string]any{
		config.LINE_CHANNEL_SECRET:       "secret",
		config.LINE_CHANNEL_ACCESS_TOKEN: "token",
		config.MEDIA_DIR:                 t.TempDir(),
		config.HTTP_PROXY:                "",
		"ai.providers.gemini.api_key":    "g-key",
	}
}

func TestNewContainerInMemory(t *testing.T) {
	c, err := NewContainer(config.FromMap(baseValues(t)))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.NotNil(t, c.Sessions)
	assert.NotNil(t, c.Line)
	assert.NotNil(t, c.Gateway)
	assert.NotNil(t, c.Queue)
	assert.Equal(t, []string{config.PROVIDER_GEMINI}, c.AI.Providers())
	// no OpenAI key
	assert.False(t, c.Images.Enabled())
}

func TestNewContainerWithSQLiteSessions(t *testing.T) {
	values := baseValues(t)
	values[config.SESSION_BACKEND] = "sqlite"
	values[config.DATABASE_DSN] = filepath.Join(t.TempDir(), "sessions.db")
	values["ai.providers.openai.api_key"] = "o-key"

	c, err := NewContainer(config.FromMap(values))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.DB)
	assert.True(t, c.Images.Enabled())
	assert.ElementsMatch(t, []string{config.PROVIDER_GEMINI, config.PROVIDER_OPENAI}, c.AI.Providers())
}
