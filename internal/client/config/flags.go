package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

var flagNames = []string{"-a", "-t", "-d", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-t int      request timeout in seconds
//	-d string   data directory
//	-l string   log level
//
// Only these flags are looked at; everything else belongs to the command tree.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, flagNames)

	fs := flag.NewFlagSet("notekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
