package region

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tagforge/tagforge/internal/options"
)

// DefaultFileConcurrency is the default max_concurrency for per-file bulk
// operations (spec.md §5: "default... 5 for per-file work").
const DefaultFileConcurrency = 5

type bulkConfig struct {
	maxConcurrency int64
}

func defaultBulkConfig() *bulkConfig {
	return &bulkConfig{maxConcurrency: DefaultFileConcurrency}
}

// BulkOption configures a bulk file operation's concurrency bound.
type BulkOption = options.Option[*bulkConfig]

// WithMaxConcurrency bounds the number of files a bulk operation processes
// at once (spec.md §5's max_concurrency knob; default DefaultFileConcurrency).
func WithMaxConcurrency(n int) BulkOption {
	return options.NoError(func(c *bulkConfig) {
		if n > 0 {
			c.maxConcurrency = int64(n)
		}
	})
}

// FileResult pairs a bulk operation's per-file outcome with its input
// path, preserving the caller's input order (spec.md §5: "the returned
// order matches the input order").
type FileResult[T any] struct {
	Path  string
	Value T
	Err   error
}

// runBulk fans work out across paths with a semaphore.Weighted bounding
// concurrency to cfg.maxConcurrency and an errgroup.Group only for
// goroutine lifecycle management — task failures are captured per-item
// in FileResult rather than aborting the group, matching spec.md §7's
// "file-level failures in bulk mode produce per-file diagnostics; the
// batch continues".
func runBulk[T any](ctx context.Context, paths []string, cfg *bulkConfig, work func(path string) (T, error)) []FileResult[T] {
	results := make([]FileResult[T], len(paths))
	sem := semaphore.NewWeighted(cfg.maxConcurrency)

	g, gctx := errgroup.WithContext(ctx)
	// Acquire/Release failures only occur when gctx is canceled, which
	// this package never does on its own (spec.md §5: "cancellation-
	// oblivious"); a caller-supplied ctx can still cancel early.
	for i, p := range paths {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = FileResult[T]{Path: p, Err: err}

				return nil
			}
			defer sem.Release(1)

			v, err := work(p)
			results[i] = FileResult[T]{Path: p, Value: v, Err: err}

			return nil
		})
	}

	_ = g.Wait() // work() never returns an error from g.Go itself; see above

	return results
}

// LoadMany eagerly loads every path in paths with bounded parallelism
// (default DefaultFileConcurrency). Failed files yield a FileResult with
// Err set; successful files yield their parsed Archive.
func LoadMany(ctx context.Context, paths []string, opts ...BulkOption) []FileResult[*Archive] {
	cfg := defaultBulkConfig()
	_ = options.Apply(cfg, opts...)

	return runBulk(ctx, paths, cfg, LoadFile)
}

// SaveMany serializes each archive in archives to its corresponding path
// in paths (same length, same order) with bounded parallelism.
func SaveMany(ctx context.Context, paths []string, archives []*Archive, opts ...BulkOption) []FileResult[struct{}] {
	cfg := defaultBulkConfig()
	_ = options.Apply(cfg, opts...)

	results := make([]FileResult[struct{}], len(paths))
	sem := semaphore.NewWeighted(cfg.maxConcurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i := range paths {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = FileResult[struct{}]{Path: paths[i], Err: err}

				return nil
			}
			defer sem.Release(1)

			data, err := archives[i].Save()
			if err == nil {
				err = os.WriteFile(paths[i], data, 0o644) //nolint:gosec
			}
			results[i] = FileResult[struct{}]{Path: paths[i], Err: err}

			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ProcessDirectory lists every file in dir matching the glob pattern
// (e.g. "*.tfa") and loads each with bounded parallelism, in the same
// shape as LoadMany.
func ProcessDirectory(ctx context.Context, dir, pattern string, opts ...BulkOption) ([]FileResult[*Archive], error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	return LoadMany(ctx, paths, opts...), nil
}
