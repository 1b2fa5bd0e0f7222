package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashabitz/liquidity/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestRedactSensitiveData(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{ReplaceAttr: redactSensitiveData}))

	logger.Info("Connected to AWS", "account", "123456789012", "region", "us-east-1")

	out := buf.String()
	assert.NotContains(t, out, "123456789012")
	assert.Contains(t, out, "account=[REDACTED]")
	assert.Contains(t, out, "region=us-east-1")
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquidity.log")

	logger, closer, err := New(config.LogConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("Fetching marketplace offerings", "key", "m5.large")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"key":"m5.large"`), string(data))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New(config.LogConfig{Format: "xml"})
	assert.Error(t, err)
}
