package commands

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherShouldTrigger(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "events.schema")

	w, err := NewWatcher([]string{schemaPath}, DefaultDebounce, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"schema written", fsnotify.Event{Name: schemaPath, Op: fsnotify.Write}, true},
		{"schema created", fsnotify.Event{Name: schemaPath, Op: fsnotify.Create}, true},
		{"schema chmod", fsnotify.Event{Name: schemaPath, Op: fsnotify.Chmod}, false},
		{"schema removed", fsnotify.Event{Name: schemaPath, Op: fsnotify.Remove}, false},
		{"sibling yaml", fsnotify.Event{Name: filepath.Join(dir, "common.yaml"), Op: fsnotify.Write}, true},
		{"sibling json", fsnotify.Event{Name: filepath.Join(dir, "common.JSON"), Op: fsnotify.Create}, true},
		{"generated go", fsnotify.Event{Name: filepath.Join(dir, "models.go"), Op: fsnotify.Write}, false},
		{"swap file", fsnotify.Event{Name: filepath.Join(dir, ".events.schema.swp"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.shouldTrigger(tt.event))
		})
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte("a: 1\n"), 0o600))

	w, err := NewWatcher([]string{schemaPath}, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	for i := range 3 {
		require.NoError(t, os.WriteFile(schemaPath, []byte{byte('a' + i), '\n'}, 0o600))
	}
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Less(t, runs.Load(), int32(3), "a burst of writes is coalesced")
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "api.yaml")}, DefaultDebounce, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to watch directory")
}
