package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev (built at: unknown)\n", out)
}

func TestSweepCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	mediaDir := t.TempDir()
	t.Setenv("LINEBOT_LINE__CHANNEL_SECRET", "secret")
	t.Setenv("LINEBOT_LINE__CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINEBOT_MEDIA__DIR", mediaDir)
	t.Setenv("LINEBOT_MEDIA__RETENTION", "1h")

	stale := filepath.Join(mediaDir, "0b5c8f1e-1111-4000-8000-000000000000.jpg")
	fresh := filepath.Join(mediaDir, "0b5c8f1e-2222-4000-8000-000000000000.mp4")
	require.NoError(t, os.WriteFile(stale, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("b"), 0o600))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := execute(t, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 file(s)")
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YOUR_CHANNEL_SECRET", "YOUR_CHANNEL_ACCESS_TOKEN",
		"LINEBOT_LINE__CHANNEL_SECRET", "LINEBOT_LINE__CHANNEL_ACCESS_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestSweepWithoutCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	clearCredentials(t)
	mediaDir := t.TempDir()
	t.Setenv("LINEBOT_MEDIA__DIR", mediaDir)

	out, err := execute(t, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 file(s) from "+mediaDir)
}

func TestServeRequiresCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	clearCredentials(t)

	_, err := execute(t)
	assert.ErrorContains(t, err, "channel secret")
}
