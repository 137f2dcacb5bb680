package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "notes", "list"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "subcommands and their flags ignored",
			args:         []string{"notes", "list", "--page", "2"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-a", "-t", "5"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{"-a", "-t", "5"},
		},
		{
			name:         "repeated flag kept in order",
			args:         []string{"-d", "one", "-d", "two"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "one", "-d", "two"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestStripArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flags []string
		want  []string
	}{
		{
			name:  "config flags removed, command kept",
			args:  []string{"-a", "http://api:8000", "notes", "list", "-t", "5"},
			flags: []string{"-a", "-t"},
			want:  []string{"notes", "list"},
		},
		{
			name:  "inline value removed",
			args:  []string{"-l=debug", "dashboard"},
			flags: []string{"-l"},
			want:  []string{"dashboard"},
		},
		{
			name:  "command flags survive",
			args:  []string{"notes", "list", "--page", "2", "-d", "/tmp/x"},
			flags: []string{"-d"},
			want:  []string{"notes", "list", "--page", "2"},
		},
		{
			name:  "nothing to strip",
			args:  []string{"login", "--username", "alice"},
			flags: []string{"-a"},
			want:  []string{"login", "--username", "alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripArgs(tt.args, tt.flags))
		})
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigFile([]string{"notes", "-config", "/path/long.json"}))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, ConfigFile([]string{"-a", "http://x", "login"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})
}
