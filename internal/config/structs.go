package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/descan/internal/batch"
	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/pipeline"
	"github.com/MeKo-Tech/descan/internal/preprocess"
	"github.com/MeKo-Tech/descan/internal/rectify"
)

// Config represents the complete configuration for the descan application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Scan pipeline settings
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// ScanConfig contains document detection and rectification settings.
type ScanConfig struct {
	// Preprocessing
	MaxDimension int     `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
	BlurSigma    float64 `mapstructure:"blur_sigma" yaml:"blur_sigma" json:"blur_sigma"`
	CannyLow     float64 `mapstructure:"canny_low" yaml:"canny_low" json:"canny_low"`
	CannyHigh    float64 `mapstructure:"canny_high" yaml:"canny_high" json:"canny_high"`
	DilateKernel int     `mapstructure:"dilate_kernel" yaml:"dilate_kernel" json:"dilate_kernel"`

	// Quadrilateral selection
	MinAreaFraction float64 `mapstructure:"min_area_fraction" yaml:"min_area_fraction" json:"min_area_fraction"`
	EpsilonFraction float64 `mapstructure:"epsilon_fraction" yaml:"epsilon_fraction" json:"epsilon_fraction"`
	MaxCandidates   int     `mapstructure:"max_candidates" yaml:"max_candidates" json:"max_candidates"`

	// Warping
	Interpolation string `mapstructure:"interpolation" yaml:"interpolation" json:"interpolation"`

	// Enhancement
	Enhance       bool    `mapstructure:"enhance" yaml:"enhance" json:"enhance"`
	EnhanceMethod string  `mapstructure:"enhance_method" yaml:"enhance_method" json:"enhance_method"`
	BlockSize     int     `mapstructure:"block_size" yaml:"block_size" json:"block_size"`
	ThresholdC    float64 `mapstructure:"threshold_c" yaml:"threshold_c" json:"threshold_c"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	File    string `mapstructure:"file" yaml:"file" json:"file"`
	Overlay bool   `mapstructure:"overlay" yaml:"overlay" json:"overlay"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers   int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Recursive bool   `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	pre := preprocess.DefaultConfig()
	opts := rectify.DefaultOptions()
	enh := enhance.DefaultConfig()
	bat := batch.DefaultConfig()

	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Scan: ScanConfig{
			MaxDimension:    pre.MaxDimension,
			BlurSigma:       pre.BlurSigma,
			CannyLow:        pre.CannyLow,
			CannyHigh:       pre.CannyHigh,
			DilateKernel:    pre.DilateKernel,
			MinAreaFraction: opts.MinAreaFraction,
			EpsilonFraction: opts.ApproxEpsilonFraction,
			MaxCandidates:   opts.MaxCandidates,
			Interpolation:   string(opts.Interpolation),
			Enhance:         false,
			EnhanceMethod:   string(enh.Method),
			BlockSize:       enh.BlockSize,
			ThresholdC:      enh.C,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:   bat.Workers,
			OutputDir: bat.OutputDir,
			Recursive: bat.Recursive,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if err := c.Scan.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Batch.Validate()
}

// Validate checks scan pipeline settings.
func (c *ScanConfig) Validate() error {
	if c.MaxDimension < 1 {
		return fmt.Errorf("max_dimension must be positive, got %d", c.MaxDimension)
	}
	if c.CannyLow < 0 || c.CannyHigh < 0 {
		return fmt.Errorf("canny thresholds must be non-negative, got %g/%g", c.CannyLow, c.CannyHigh)
	}
	if c.MinAreaFraction < 0 || c.MinAreaFraction > 1 {
		return fmt.Errorf("min_area_fraction must be in [0,1], got %g", c.MinAreaFraction)
	}
	if c.EpsilonFraction <= 0 || c.EpsilonFraction >= 1 {
		return fmt.Errorf("epsilon_fraction must be in (0,1), got %g", c.EpsilonFraction)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("max_candidates must be positive, got %d", c.MaxCandidates)
	}
	switch rectify.Interpolation(c.Interpolation) {
	case rectify.InterpBilinear, rectify.InterpNearest:
	default:
		return fmt.Errorf("invalid interpolation: %s", c.Interpolation)
	}
	switch enhance.Method(c.EnhanceMethod) {
	case enhance.MethodAdaptive, enhance.MethodOtsu, enhance.MethodSharpen:
	default:
		return fmt.Errorf("invalid enhancement method: %s", c.EnhanceMethod)
	}
	if c.BlockSize < 3 || c.BlockSize%2 == 0 {
		return fmt.Errorf("block_size must be odd and >= 3, got %d", c.BlockSize)
	}
	return nil
}

// Validate checks output settings.
func (c *OutputConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
}

// Validate checks batch settings.
func (c *BatchConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}

// PipelineConfig converts the loaded settings into a pipeline configuration.
func (c *Config) PipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Preprocess = preprocess.Config{
		MaxDimension: c.Scan.MaxDimension,
		BlurSigma:    c.Scan.BlurSigma,
		CannyLow:     c.Scan.CannyLow,
		CannyHigh:    c.Scan.CannyHigh,
		DilateKernel: c.Scan.DilateKernel,
	}
	cfg.Rectify = rectify.Options{
		MinAreaFraction:       c.Scan.MinAreaFraction,
		ApproxEpsilonFraction: c.Scan.EpsilonFraction,
		MaxCandidates:         c.Scan.MaxCandidates,
		Interpolation:         rectify.Interpolation(c.Scan.Interpolation),
	}
	cfg.Enhance = c.Scan.Enhance
	cfg.Enhancer = enhance.Config{
		Method:    enhance.Method(c.Scan.EnhanceMethod),
		BlockSize: c.Scan.BlockSize,
		C:         c.Scan.ThresholdC,
	}
	return cfg
}

// BatchProcessorConfig converts the loaded settings into a batch configuration.
func (c *Config) BatchProcessorConfig() batch.Config {
	return batch.Config{
		OutputDir: c.Batch.OutputDir,
		Workers:   c.Batch.Workers,
		Recursive: c.Batch.Recursive,
		Overlay:   c.Output.Overlay,
	}
}
