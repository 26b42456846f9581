package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/descan/internal/batch"
	"github.com/MeKo-Tech/descan/internal/pipeline"
)

// batchCmd represents the batch command for directory processing.
var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Rectify every image in a directory",
	Long: `Discover image files in a directory, scan each one through the
rectification pipeline in parallel, and write the results to the output
directory.

Examples:
  descan batch ./photos
  descan batch ./photos --output-dir ./scans --workers 8
  descan batch ./photos --recursive --enhance`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input directory provided")
	}
	inputDir := args[0]

	cfg := GetConfig()
	// CLI overrides for keys the scan command also binds.
	if cmd.Flags().Changed("enhance") {
		cfg.Scan.Enhance, _ = cmd.Flags().GetBool("enhance")
	}
	if cmd.Flags().Changed("overlay") {
		cfg.Output.Overlay, _ = cmd.Flags().GetBool("overlay")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	scanner := pipeline.NewScanner(cfg.PipelineConfig())
	proc := batch.NewProcessor(scanner, cfg.BatchProcessorConfig())

	parallel, _ := cmd.Flags().GetBool("parallel")
	var (
		sum batch.Summary
		err error
	)
	if parallel {
		sum, err = proc.RunParallel(cmd.Context(), inputDir)
	} else {
		sum, err = proc.Run(cmd.Context(), inputDir)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scanned %d/%d images (%d failed)\n",
		sum.Succeeded, sum.Total, sum.Failed)
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output-dir", "scanned", "directory for scanned outputs")
	batchCmd.Flags().Int("workers", 0, "number of parallel workers (0 = number of CPUs)")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().Bool("parallel", true, "scan images concurrently")
	batchCmd.Flags().Bool("enhance", false, "binarize the rectified pages")
	batchCmd.Flags().Bool("overlay", false, "also save detection overlays")

	_ = viper.BindPFlag("batch.output_dir", batchCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("batch.recursive", batchCmd.Flags().Lookup("recursive"))
}
