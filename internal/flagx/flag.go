// Package flagx splits a command line between the config loader, which owns
// a handful of single-dash flags, and the command tree, which gets the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFileFlags are the flags that select a JSON config file.
var ConfigFileFlags = []string{"-c", "-config"}

// flagName returns the flag part of arg and whether arg carries its value
// inline ("-a=http://host").
func flagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false
	}
	if name, _, ok := strings.Cut(arg, "="); ok {
		return name, true
	}
	return arg, false
}

// takesValue reports whether the argument following a separate flag should
// be consumed as that flag's value.
func takesValue(args []string, i int) bool {
	return i+1 < len(args) && !strings.HasPrefix(args[i+1], "-")
}

// FilterArgs returns only the allowed flags from args, together with their
// values. Both "-c conf.json" and "-c=conf.json" are recognised.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, inline := flagName(args[i])
		if _, ok := allowed[name]; !ok {
			continue
		}
		filtered = append(filtered, args[i])
		if !inline && takesValue(args, i) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// StripArgs is the complement of FilterArgs: it removes the given flags and
// their values, leaving what should reach the command tree.
func StripArgs(args []string, flags []string) []string {
	owned := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		owned[f] = struct{}{}
	}

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, inline := flagName(args[i])
		if _, ok := owned[name]; !ok {
			rest = append(rest, args[i])
			continue
		}
		if !inline && takesValue(args, i) {
			i++
		}
	}

	return rest
}

// ConfigFile extracts the config file path given via -c or -config.
// It returns "" when neither is present.
func ConfigFile(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return config
}
