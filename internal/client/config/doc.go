// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-t int      request timeout (seconds)
//	-d string   data directory (session database and log file)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s",
//	  "data_dir": "/home/me/.config/notekeeper",
//	  "theme_poll_interval": "2s",
//	  "log_level": "debug"
//	}
package config
