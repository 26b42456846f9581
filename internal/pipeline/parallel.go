package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// ProgressFunc is invoked after each image completes, with the number done
// and the total. Implementations must be safe for concurrent calls.
type ProgressFunc func(done, total int)

// ParallelConfig holds configuration for parallel batch scanning.
type ParallelConfig struct {
	MaxWorkers int          // number of parallel workers (0 = runtime.NumCPU())
	Progress   ProgressFunc // optional progress reporting
}

// DefaultParallelConfig returns sensible defaults for parallel scanning.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

type scanJob struct {
	index int
	image image.Image
}

type scanOutcome struct {
	index  int
	result *ScanResult
	err    error
}

// ProcessParallel scans multiple images concurrently using a worker pool.
// Results come back in input order; the first per-image error is returned
// alongside the successful results, with failed slots left nil.
func (s *Scanner) ProcessParallel(ctx context.Context, images []image.Image, cfg ParallelConfig) ([]*ScanResult, error) {
	if len(images) == 0 {
		return nil, errors.New("no images provided")
	}
	if s == nil {
		return nil, errors.New("pipeline not initialized")
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MaxWorkers > len(images) {
		cfg.MaxWorkers = len(images)
	}

	jobs := make(chan scanJob, len(images))
	outcomes := make(chan scanOutcome, len(images))

	var wg sync.WaitGroup
	for i := 0; i < cfg.MaxWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, jobs, outcomes, &wg)
	}

	go func() {
		defer close(jobs)
		for i, img := range images {
			select {
			case jobs <- scanJob{index: i, image: img}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]*ScanResult, len(images))
	errs := make([]error, len(images))
	done := 0
	for out := range outcomes {
		results[out.index] = out.result
		errs[out.index] = out.err
		done++
		if cfg.Progress != nil {
			cfg.Progress(done, len(images))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var firstErr error
	for i, err := range errs {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("image %d: %w", i, err)
		}
	}
	return results, firstErr
}

func (s *Scanner) worker(ctx context.Context, jobs <-chan scanJob, outcomes chan<- scanOutcome, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			result, err := s.ProcessContext(ctx, job.image)
			select {
			case outcomes <- scanOutcome{index: job.index, result: result, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
