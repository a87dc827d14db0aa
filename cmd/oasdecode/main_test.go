package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdecode"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(context.Background(), append([]string{"oasdecode"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "oasdecode v"+oasdecode.Version())
	assert.Contains(t, out, "Go Version:")
}

func TestLogFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"defaults", []string{"version"}, ""},
		{"json debug", []string{"--log-level", "debug", "--log-format", "json", "version"}, ""},
		{"bad level", []string{"--log-level", "chatty", "version"}, "invalid log level"},
		{"bad format", []string{"--log-format", "xml", "version"}, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("OASDECODE_LOG_LEVEL", "nope")
	_, _, err := run(t, "version")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestSubcommands(t *testing.T) {
	app := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"generate", "mcp", "version"}, names)
}
