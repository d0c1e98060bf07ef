package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-status-backend/config"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party.log")

	logger, closer, err := New(config.LoggingConfig{Level: "debug", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Debug().Str("room", "2").Msg("slot assigned")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"room":"2"`)
	assert.Contains(t, string(data), `"app":"party-status"`)
}

func TestNew_Errors(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"})
	assert.Error(t, err)

	_, _, err = New(config.LoggingConfig{Output: "syslog"})
	assert.Error(t, err)
}
