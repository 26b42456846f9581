package pipeline

import (
	"encoding/json"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/descan/internal/rectify"
	"github.com/MeKo-Tech/descan/internal/utils"
)

func sampleResult() *ScanResult {
	return &ScanResult{
		InputWidth:  1000,
		InputHeight: 800,
		Scanned:     image.NewRGBA(image.Rect(0, 0, 800, 580)),
		Corners: rectify.OrderedQuad{
			TL: utils.Point{X: 100, Y: 100},
			TR: utils.Point{X: 900, Y: 120},
			BR: utils.Point{X: 880, Y: 700},
			BL: utils.Point{X: 90, Y: 680},
		},
		Homography: rectify.Identity(),
		State:      rectify.StateRectified,
		Duration:   42 * time.Millisecond,
	}
}

func TestBuildReport(t *testing.T) {
	rep := sampleResult().BuildReport()
	assert.Equal(t, 1000, rep.InputWidth)
	assert.Equal(t, 800, rep.OutputWidth)
	assert.Equal(t, 580, rep.OutputHeight)
	assert.Equal(t, "rectified", rep.State)
	require.Len(t, rep.Corners, 4)
	assert.Equal(t, [2]float64{100, 100}, rep.Corners[0])
	assert.InDelta(t, 42.0, rep.DurationMS, 0.001)
}

func TestFormatReport_JSON(t *testing.T) {
	out, err := sampleResult().FormatReport("json")
	require.NoError(t, err)

	var rep Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "rectified", rep.State)
	assert.Equal(t, 800, rep.OutputWidth)
}

func TestFormatReport_YAML(t *testing.T) {
	out, err := sampleResult().FormatReport("yaml")
	require.NoError(t, err)

	var rep Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "rectified", rep.State)
	assert.Equal(t, 580, rep.OutputHeight)
}

func TestFormatReport_Text(t *testing.T) {
	out, err := sampleResult().FormatReport("text")
	require.NoError(t, err)
	assert.Contains(t, out, "800x580")
	assert.Contains(t, out, "rectified")

	// Empty format defaults to text.
	def, err := sampleResult().FormatReport("")
	require.NoError(t, err)
	assert.Equal(t, out, def)
}

func TestFormatReport_Unsupported(t *testing.T) {
	_, err := sampleResult().FormatReport("xml")
	assert.Error(t, err)
}

func TestOutput_PrefersEnhanced(t *testing.T) {
	res := sampleResult()
	assert.Equal(t, image.Image(res.Scanned), res.Output())

	res.Enhanced = image.NewGray(image.Rect(0, 0, 800, 580))
	assert.Equal(t, image.Image(res.Enhanced), res.Output())
}
