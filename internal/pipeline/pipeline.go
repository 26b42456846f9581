// Package pipeline wires preprocessing, boundary detection, rectification
// and enhancement into a complete document scan. Each Scanner call is a
// pure, synchronous computation; scanners hold no per-image state, so one
// Scanner may serve many goroutines.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/descan/internal/boundary"
	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/preprocess"
	"github.com/MeKo-Tech/descan/internal/rectify"
)

// Config aggregates the per-stage settings for a document scan.
type Config struct {
	Preprocess preprocess.Config
	Rectify    rectify.Options
	Enhance    bool
	Enhancer   enhance.Config
}

// DefaultConfig returns the standard end-to-end scan configuration.
func DefaultConfig() Config {
	return Config{
		Preprocess: preprocess.DefaultConfig(),
		Rectify:    rectify.DefaultOptions(),
		Enhance:    true,
		Enhancer:   enhance.DefaultConfig(),
	}
}

// Scanner runs the document scanning pipeline.
type Scanner struct {
	cfg Config
}

// NewScanner creates a scanner with the given configuration.
func NewScanner(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Config returns the scanner's configuration.
func (s *Scanner) Config() Config { return s.cfg }

// Process scans a single in-memory image.
func (s *Scanner) Process(img image.Image) (*ScanResult, error) {
	return s.ProcessContext(context.Background(), img)
}

// ProcessContext scans a single image, honoring context cancellation
// between stages.
func (s *Scanner) ProcessContext(ctx context.Context, img image.Image) (*ScanResult, error) {
	if s == nil {
		return nil, errors.New("pipeline not initialized")
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", rectify.ErrInvalidInput)
	}
	start := time.Now()

	resized, err := preprocess.Downscale(img, s.cfg.Preprocess)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	edges := preprocess.EdgeMap(resized, s.cfg.Preprocess)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boundaries := boundary.FindBoundaries(edges)
	slog.Debug("boundary detection complete", "contours", len(boundaries))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := rectify.Rectify(resized, boundaries, s.cfg.Rectify)
	if err != nil {
		return nil, err
	}
	slog.Debug("rectification complete",
		"state", res.State,
		"width", res.Image.Rect.Dx(),
		"height", res.Image.Rect.Dy())

	result := &ScanResult{
		InputWidth:  img.Bounds().Dx(),
		InputHeight: img.Bounds().Dy(),
		Source:      resized,
		Scanned:     res.Image,
		Corners:     res.Corners,
		Homography:  res.Homography,
		State:       res.State,
	}

	if s.cfg.Enhance && res.State == rectify.StateRectified {
		result.Enhanced = enhance.Apply(res.Image, s.cfg.Enhancer)
	}

	result.Duration = time.Since(start)
	return result, nil
}
