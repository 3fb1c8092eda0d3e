// Package writer persists generated artifacts into a Laravel project tree.
package writer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/laravel-crud-generator/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ErrExists is returned when a target file exists and overwriting is not allowed
var ErrExists = errors.New("file already exists (use --force to overwrite)")

// ArtifactWriter writes artifacts below OutputDir in parallel
type ArtifactWriter struct {
	OutputDir string
	Force     bool
	DryRun    bool
	Logger    *logrus.Logger
	workers   int
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string, force, dryRun bool, logger *logrus.Logger) *ArtifactWriter {
	return &ArtifactWriter{
		OutputDir: outputDir,
		Force:     force,
		DryRun:    dryRun,
		Logger:    logger,
		workers:   runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel writes.
func (w *ArtifactWriter) WithWorkers(n int) *ArtifactWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Path returns where an artifact is written
func (w *ArtifactWriter) Path(a models.Artifact) string {
	return filepath.Join(w.OutputDir, filepath.FromSlash(a.Dir), a.FileName)
}

// Write persists every artifact and returns the paths in artifact order.
// Existing files are checked before anything is written, so a refused batch
// leaves the tree untouched.
func (w *ArtifactWriter) Write(ctx context.Context, artifacts []models.Artifact) ([]string, error) {
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = w.Path(a)
	}

	if !w.Force {
		for _, path := range paths {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s: %w", path, ErrExists)
			} else if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
		}
	}

	if w.DryRun {
		for _, path := range paths {
			w.Logger.Infof("Would write %s", path)
		}
		return paths, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for i, a := range artifacts {
		path := paths[i]
		a := a
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(path, a.Content)
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (w *ArtifactWriter) writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Logger.Debugf("Wrote %s (%d bytes)", path, len(content))
	return nil
}
