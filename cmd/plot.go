package cmd

import (
	"fmt"

	"github.com/KaramelBytes/tabloom-cli/internal/chart"
	"github.com/KaramelBytes/tabloom-cli/internal/logger"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	plotKind string
	plotX    string
	plotY    string
	plotOut  string
	plotBins int
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render one chart from a dataset and save it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := chart.ParseKind(plotKind)
		if !ok {
			return fmt.Errorf("unsupported --kind: %s (use bar|line|scatter|pie|hist|area)", plotKind)
		}
		if plotOut == "" {
			return fmt.Errorf("--out is required")
		}
		ctx := commandContext(cmd)
		opt := session.OptionsFromConfig(currentConfig())
		if plotBins > 0 {
			opt.Chart.Bins = plotBins
		}

		t, err := table.Load(args[0], opt.Load)
		if err != nil {
			return err
		}
		c, err := chart.Render(t, chart.Request{Kind: kind, X: plotX, Y: plotY}, opt.Chart)
		if err != nil {
			return fmt.Errorf("render %s chart: %w", kind, err)
		}
		path, err := c.Save(plotOut)
		if err != nil {
			return fmt.Errorf("save chart: %w", err)
		}
		logger.FromContext(ctx).Info("chart saved", "kind", kind, "path", path)
		session.Record(ctx, opt.HistoryPath, c, path)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s saved\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotKind, "kind", "k", "bar", "chart kind: bar|line|scatter|pie|hist|area")
	plotCmd.Flags().StringVar(&plotX, "x", "", "x-axis column (ignored by pie and hist)")
	plotCmd.Flags().StringVar(&plotY, "y", "", "y-axis column")
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "", "output image path; the extension picks the format")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "histogram bins (overrides config)")
}
