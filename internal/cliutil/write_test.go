package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d files", "pets", 4)
	assert.Equal(t, "pets: 4 files", buf.String())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("simulated write error")
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() {
		Writef(errorWriter{}, "ignored %d", 1)
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{-1, "-1 B"},
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.size))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", Plural(1, "file"))
	assert.Equal(t, "0 files", Plural(0, "file"))
	assert.Equal(t, "3 warnings", Plural(3, "warning"))
}
