// Package worker fans file extraction over a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jef808/pyextract/internal/extractor"
	"github.com/Jef808/pyextract/internal/parser"
)

// Result is the outcome of extracting one file. Exactly one of Module and
// Err is set.
type Result struct {
	Path   string
	Module *extractor.Module
	Err    error
}

// Failed reports whether extraction of this file failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Pool runs extractions in parallel. Each worker owns its own parser
// because tree-sitter parsers are stateful.
type Pool struct {
	size int
}

// NewPool creates a pool of size workers. Size is clamped to at least one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Run extracts every file and returns one Result per input, in input order.
// Per-file failures (unreadable file, syntax error) are recorded on the
// Result and never abort the batch.
func (p *Pool) Run(ctx context.Context, files []string) []Result {
	results := make([]Result, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerID := fmt.Sprintf("extract-%s", uuid.New().String()[:8])
			logger := log.With().Str("worker_id", workerID).Logger()

			par := parser.NewParser()
			for idx := range jobs {
				path := files[idx]
				mod, err := extractFile(ctx, par, path)
				if err != nil {
					logger.Warn().Err(err).Str("file", path).Msg("extraction failed")
				} else {
					logger.Debug().Str("file", path).Msg("extracted")
				}
				results[idx] = Result{Path: path, Module: mod, Err: err}
			}
		}()
	}

	cancelFrom := func(idx int) []Result {
		for i := idx; i < len(files); i++ {
			results[i] = Result{Path: files[i], Err: ctx.Err()}
		}
		close(jobs)
		wg.Wait()
		return results
	}

	for idx := range files {
		// checked before the select so an already-cancelled context never
		// dispatches work
		if ctx.Err() != nil {
			return cancelFrom(idx)
		}
		select {
		case <-ctx.Done():
			return cancelFrom(idx)
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// extractFile reads, parses, and extracts a single file.
func extractFile(ctx context.Context, par *parser.Parser, path string) (*extractor.Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	tree, err := par.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return extractor.Extract(tree), nil
}
