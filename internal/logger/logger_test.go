package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prodscope.log")

	l, err := New(Config{Level: "debug", File: path, Console: false})
	require.NoError(t, err)
	defer l.Close()

	lg := l.Logger()
	lg.Info().Str("key", "value").Msg("test message")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	l, err := New(Config{Level: "nonsense", Console: true})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, zerolog.InfoLevel, l.Logger().GetLevel())
}

func TestCloseWithoutFile(t *testing.T) {
	l, err := New(Config{Level: "info", Console: true})
	require.NoError(t, err)
	assert.NoError(t, l.Close())
}
