// Package batch scans whole directories of document photos, running the
// pipeline over each discovered image with a worker pool and writing the
// rectified outputs next to a summary.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/descan/internal/pipeline"
	"github.com/MeKo-Tech/descan/internal/utils"
)

// Config controls a batch run.
type Config struct {
	OutputDir string
	Workers   int
	Recursive bool
	// Overlay additionally saves a detection overlay per input.
	Overlay bool
}

// DefaultConfig returns batch defaults: outputs beside the inputs in a
// "scanned" directory, one worker per CPU.
func DefaultConfig() Config {
	return Config{OutputDir: "scanned", Workers: 0, Recursive: false}
}

// Summary reports the outcome of a batch run.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Processor runs the scan pipeline over directories of images.
type Processor struct {
	scanner *pipeline.Scanner
	cfg     Config
}

// NewProcessor creates a batch processor around an existing scanner.
func NewProcessor(scanner *pipeline.Scanner, cfg Config) *Processor {
	return &Processor{scanner: scanner, cfg: cfg}
}

// Run discovers images under inputDir, scans them in parallel and writes
// each result as PNG into the output directory. Per-image failures are
// logged and counted, not fatal; the batch only errors when nothing could
// be processed at all.
func (p *Processor) Run(ctx context.Context, inputDir string) (Summary, error) {
	var sum Summary
	if p == nil || p.scanner == nil {
		return sum, errors.New("batch processor not initialized")
	}

	files, err := DiscoverImages(inputDir, p.cfg.Recursive)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		return sum, fmt.Errorf("no images found in %s", inputDir)
	}
	sum.Total = len(files)
	slog.Info("batch scan starting", "images", len(files), "dir", inputDir)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o750); err != nil {
		return sum, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := p.scanOne(ctx, path); err != nil {
			slog.Warn("scan failed", "file", path, "error", err)
			sum.Failed++
			continue
		}
		sum.Succeeded++
	}

	slog.Info("batch scan complete", "succeeded", sum.Succeeded, "failed", sum.Failed)
	if sum.Succeeded == 0 {
		return sum, fmt.Errorf("all %d images failed", sum.Total)
	}
	return sum, nil
}

// RunParallel behaves like Run but loads and scans images through the
// pipeline worker pool before writing outputs sequentially.
func (p *Processor) RunParallel(ctx context.Context, inputDir string) (Summary, error) {
	var sum Summary
	if p == nil || p.scanner == nil {
		return sum, errors.New("batch processor not initialized")
	}

	files, err := DiscoverImages(inputDir, p.cfg.Recursive)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		return sum, fmt.Errorf("no images found in %s", inputDir)
	}
	sum.Total = len(files)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o750); err != nil {
		return sum, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(files))
	imgs := make([]image.Image, 0, len(files))
	for _, path := range files {
		img, err := utils.LoadImage(path)
		if err != nil {
			slog.Warn("failed to load image", "file", path, "error", err)
			sum.Failed++
			continue
		}
		paths = append(paths, path)
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return sum, fmt.Errorf("all %d images failed", sum.Total)
	}

	pcfg := pipeline.ParallelConfig{MaxWorkers: p.cfg.Workers}
	results, perr := p.scanner.ProcessParallel(ctx, imgs, pcfg)
	if results == nil {
		return sum, perr
	}
	if perr != nil {
		slog.Warn("some scans failed", "error", perr)
	}

	for i, res := range results {
		if res == nil {
			sum.Failed++
			continue
		}
		if err := p.save(paths[i], res); err != nil {
			slog.Warn("failed to save output", "file", paths[i], "error", err)
			sum.Failed++
			continue
		}
		sum.Succeeded++
	}
	if sum.Succeeded == 0 {
		return sum, fmt.Errorf("all %d images failed", sum.Total)
	}
	return sum, nil
}

func (p *Processor) scanOne(ctx context.Context, path string) error {
	img, err := utils.LoadImage(path)
	if err != nil {
		return err
	}
	res, err := p.scanner.ProcessContext(ctx, img)
	if err != nil {
		return err
	}
	return p.save(path, res)
}

func (p *Processor) save(path string, res *pipeline.ScanResult) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(p.cfg.OutputDir, fmt.Sprintf("scanned_%s.png", name))
	if err := utils.SaveImage(out, res.Output()); err != nil {
		return err
	}
	if p.cfg.Overlay {
		overlay := pipeline.Overlay(res.Source, res.Corners)
		if err := utils.SaveImage(filepath.Join(p.cfg.OutputDir, fmt.Sprintf("overlay_%s.png", name)), overlay); err != nil {
			return err
		}
	}
	return nil
}
