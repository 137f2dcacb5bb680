package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Second, c.ThemePollInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.NotEmpty(t, c.DataDir)
}

func TestPaths(t *testing.T) {
	c := Config{DataDir: filepath.Join("var", "nk")}

	assert.Equal(t, filepath.Join("var", "nk", "notekeeper.db"), c.DBPath())
	assert.Equal(t, filepath.Join("var", "nk", "notekeeper.log"), c.LogPath())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":    "http://from-json:8000",
		"request_timeout": "30s",
		"log_level":       "debug",
	})

	cfg := LoadConfig([]string{"-c", path, "-a", "http://from-flag:9000", "notes", "list"})

	require.NotNil(t, cfg)
	assert.Equal(t, "http://from-flag:9000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ThemePollInterval)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	var want Config
	want.LoadDefaults()

	assert.Equal(t, &want, LoadConfig(nil))
}

func TestOwnedFlags(t *testing.T) {
	assert.ElementsMatch(t, []string{"-c", "-config", "-a", "-t", "-d", "-l"}, OwnedFlags())
}
