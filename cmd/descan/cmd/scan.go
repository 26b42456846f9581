package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/descan/internal/pipeline"
	"github.com/MeKo-Tech/descan/internal/utils"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Rectify a single photographed document",
	Long: `Detect the page outline in a photograph, warp it onto a flat
rectangle and write the result.

Supported formats: JPEG, PNG, BMP, TIFF, GIF

Examples:
  descan scan photo.jpg
  descan scan photo.jpg -o scanned.png --enhance
  descan scan photo.jpg --format json --overlay`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runScanCommand,
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input file provided")
	}
	input := args[0]

	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	img, err := utils.LoadImage(input)
	if err != nil {
		return err
	}

	scanner := pipeline.NewScanner(cfg.PipelineConfig())
	result, err := scanner.ProcessContext(cmd.Context(), img)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		outPath = fmt.Sprintf("scanned_%s.png", base)
	}
	if err := utils.SaveImage(outPath, result.Output()); err != nil {
		return err
	}

	if cfg.Output.Overlay {
		overlay := pipeline.Overlay(result.Source, result.Corners)
		overlayPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_overlay.png"
		if err := utils.SaveImage(overlayPath, overlay); err != nil {
			return err
		}
	}

	report, err := result.FormatReport(cfg.Output.Format)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), report)
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "output file path (default scanned_<input>.png)")
	scanCmd.Flags().String("format", "text", "report format (text, json, yaml)")
	scanCmd.Flags().Bool("overlay", false, "also save a detection overlay image")
	scanCmd.Flags().Bool("enhance", false, "binarize the rectified page")
	scanCmd.Flags().String("enhance-method", "adaptive", "enhancement method (adaptive, otsu, sharpen)")
	scanCmd.Flags().Float64("min-area", 0.10, "minimum page area as a fraction of the image")
	scanCmd.Flags().Float64("epsilon", 0.02, "polygon approximation tolerance as a fraction of the perimeter")
	scanCmd.Flags().Int("max-candidates", 10, "maximum number of area-ranked contours to examine")
	scanCmd.Flags().String("interpolation", "bilinear", "resampling kernel (bilinear, nearest)")
	scanCmd.Flags().Int("max-dimension", 1000, "downscale inputs so the larger side fits this bound")

	_ = viper.BindPFlag("output.format", scanCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.overlay", scanCmd.Flags().Lookup("overlay"))
	_ = viper.BindPFlag("scan.enhance", scanCmd.Flags().Lookup("enhance"))
	_ = viper.BindPFlag("scan.enhance_method", scanCmd.Flags().Lookup("enhance-method"))
	_ = viper.BindPFlag("scan.min_area_fraction", scanCmd.Flags().Lookup("min-area"))
	_ = viper.BindPFlag("scan.epsilon_fraction", scanCmd.Flags().Lookup("epsilon"))
	_ = viper.BindPFlag("scan.max_candidates", scanCmd.Flags().Lookup("max-candidates"))
	_ = viper.BindPFlag("scan.interpolation", scanCmd.Flags().Lookup("interpolation"))
	_ = viper.BindPFlag("scan.max_dimension", scanCmd.Flags().Lookup("max-dimension"))
}
