package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

const (
	dbFileName  = "notekeeper.db"
	logFileName = "notekeeper.log"
)

// Config holds runtime settings for the notekeeper CLI.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the knowledge-base backend.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - DataDir: directory holding the session database and the log file.
//   - ThemePollInterval: how often the OS appearance is checked in system mode.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	DataDir           string
	ThemePollInterval time.Duration
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = defaultDataDir()
	c.ThemePollInterval = 2 * time.Second
	c.LogLevel = "info"
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".notekeeper"
	}
	return filepath.Join(dir, "notekeeper")
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, logFileName)
}

// OwnedFlags lists every flag consumed by LoadConfig. The command tree
// receives the arguments left after removing them.
func OwnedFlags() []string {
	return append(append([]string{}, flagx.ConfigFileFlags...), flagNames...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. Invalid JSON or flag values panic.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
