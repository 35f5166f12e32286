package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/logger"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutputPath string
	descFormat     string
	descSampleRows int
	descCorr       bool
	descOutliers   bool
	descOutlierThr float64
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>...",
	Short: "Print descriptive statistics and a missing-value overview for each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(descFormat))
		switch format {
		case "", "table":
			format = "table"
		case "markdown", "md":
			format = "markdown"
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown)", descFormat)
		}

		opt := analysis.DefaultOptions()
		if descSampleRows > 0 {
			opt.SampleRows = descSampleRows
		}
		opt.Correlations = descCorr
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = descOutliers
		}
		if descOutlierThr > 0 {
			opt.OutlierThreshold = descOutlierThr
		}

		log := logger.FromContext(commandContext(cmd))
		loadOpt := session.OptionsFromConfig(currentConfig()).Load
		out := cmd.OutOrStdout()
		var md []string
		for i, path := range args {
			t, err := table.Load(path, loadOpt)
			if err != nil {
				return err
			}
			rep := analysis.Analyze(t, opt)
			log.Info("dataset described", "path", path, "rows", rep.Rows, "cols", len(rep.Cols))
			if descOutputPath != "" {
				md = append(md, rep.Markdown())
				continue
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			if format == "markdown" {
				fmt.Fprint(out, rep.Markdown())
			} else {
				rep.Render(out)
			}
		}

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(strings.Join(md, "\n"))); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote %d report(s) to %s\n", len(md), descOutputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "write the reports as Markdown to this path")
	describeCmd.Flags().StringVar(&descFormat, "format", "table", "stdout format: table|markdown")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows in Markdown reports")
	describeCmd.Flags().BoolVar(&descCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	describeCmd.Flags().Float64Var(&descOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
