package generator

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentGeneration verifies that generations sharing templates and
// buffer pools produce identical output.
func TestConcurrentGeneration(t *testing.T) {
	doc := screenDocument(t)
	g := New()
	g.DryRun = true
	g.Standalone = &StandaloneOptions{MergeDecoders: true}

	want, err := g.GenerateDocument(context.Background(), doc)
	require.NoError(t, err)

	const workers = 8
	results := make([]*GenerateResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = g.GenerateDocument(context.Background(), doc)
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		require.Len(t, results[i].Files, len(want.Files))
		for j, f := range results[i].Files {
			assert.Equal(t, want.Files[j].Name, f.Name)
			assert.True(t, bytes.Equal(want.Files[j].Content, f.Content), f.Name)
		}
	}
}
