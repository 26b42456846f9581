package pipeline

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/descan/internal/rectify"
)

// ScanResult holds everything produced by one pipeline run.
type ScanResult struct {
	InputWidth  int
	InputHeight int
	// Source is the (possibly downscaled) image detection ran on.
	Source image.Image
	// Scanned is the rectified raster, or the fallback copy of Source.
	Scanned *image.RGBA
	// Enhanced is the binarized/sharpened raster; nil when enhancement is
	// disabled or the scan fell back.
	Enhanced   *image.Gray
	Corners    rectify.OrderedQuad
	Homography rectify.Homography
	State      rectify.State
	Duration   time.Duration
}

// Output returns the best raster to hand to the caller: enhanced when
// available, otherwise the rectified (or fallback) image.
func (r *ScanResult) Output() image.Image {
	if r.Enhanced != nil {
		return r.Enhanced
	}
	return r.Scanned
}

// Report is the serializable summary of a scan.
type Report struct {
	InputWidth   int          `json:"input_width" yaml:"input_width"`
	InputHeight  int          `json:"input_height" yaml:"input_height"`
	OutputWidth  int          `json:"output_width" yaml:"output_width"`
	OutputHeight int          `json:"output_height" yaml:"output_height"`
	State        string       `json:"state" yaml:"state"`
	Corners      [][2]float64 `json:"corners,omitempty" yaml:"corners,omitempty"`
	DurationMS   float64      `json:"duration_ms" yaml:"duration_ms"`
}

// BuildReport converts the result into its serializable form.
func (r *ScanResult) BuildReport() Report {
	rep := Report{
		InputWidth:  r.InputWidth,
		InputHeight: r.InputHeight,
		State:       string(r.State),
		DurationMS:  float64(r.Duration.Microseconds()) / 1000.0,
	}
	if r.Scanned != nil {
		rep.OutputWidth = r.Scanned.Rect.Dx()
		rep.OutputHeight = r.Scanned.Rect.Dy()
	}
	for _, c := range r.Corners.Corners() {
		rep.Corners = append(rep.Corners, [2]float64{c.X, c.Y})
	}
	return rep
}

// FormatReport renders the report as "text", "json" or "yaml".
func (r *ScanResult) FormatReport(format string) (string, error) {
	rep := r.BuildReport()
	switch strings.ToLower(format) {
	case "", "text":
		return rep.text(), nil
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(rep)
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

func (rep Report) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input:  %dx%d\n", rep.InputWidth, rep.InputHeight)
	fmt.Fprintf(&b, "output: %dx%d\n", rep.OutputWidth, rep.OutputHeight)
	fmt.Fprintf(&b, "state:  %s\n", rep.State)
	for i, c := range rep.Corners {
		fmt.Fprintf(&b, "corner %d: (%.1f, %.1f)\n", i, c[0], c[1])
	}
	fmt.Fprintf(&b, "took:   %.1fms\n", rep.DurationMS)
	return b.String()
}
