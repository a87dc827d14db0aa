package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/oasdecode/internal/fileutil"
	"github.com/erraggy/oasdecode/normalizer"
)

// WriteFiles writes all generated files below outputDir. Directories are
// created as needed, including the decoders/ tree of standalone decoders.
func (r *GenerateResult) WriteFiles(outputDir string) error {
	if err := os.MkdirAll(outputDir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i := range r.Files {
		file := &r.Files[i]
		rel := filepath.FromSlash(file.Name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("invalid file name %q: must stay inside the output directory", file.Name)
		}
		if err := file.WriteFile(filepath.Join(outputDir, rel)); err != nil {
			return fmt.Errorf("%s: %w", file.Name, err)
		}
	}

	return nil
}

// WriteFile writes a single generated file to the specified path.
func (f *GeneratedFile) WriteFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, f.Content, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// writeAll writes the same files to every directory in order.
func (r *GenerateResult) writeAll(ctx context.Context, dirs []string, log normalizer.Logger) error {
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.WriteFiles(dir); err != nil {
			return fmt.Errorf("generator: writing %s: %w", dir, err)
		}
		r.WrittenDirectories = append(r.WrittenDirectories, dir)
		log.Debug("wrote output directory", "dir", dir, "files", len(r.Files))
	}
	return nil
}
