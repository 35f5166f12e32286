package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logger"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TabLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(out, "missing_markers: %s\n", utils.JoinList(quoteAll(cfg.MissingMarkers)))
		fmt.Fprintf(out, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(out, "max_display_rows: %d\n", cfg.MaxDisplayRows)
		fmt.Fprintf(out, "chart_width: %.2f\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %.2f\n", cfg.ChartHeight)
		fmt.Fprintf(out, "histogram_bins: %d\n", cfg.HistogramBins)
		fmt.Fprintf(out, "preview_dir: %s\n", cfg.PreviewDir)
		if cfg.Viewer != "" {
			fmt.Fprintf(out, "viewer: %s\n", cfg.Viewer)
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "delimiter":
			switch val {
			case "tab", "\\t", "\t":
				cfg.Delimiter = "tab"
			default:
				if len([]rune(val)) != 1 {
					return fmt.Errorf("invalid delimiter: %q (use a single character or 'tab')", val)
				}
				cfg.Delimiter = val
			}
		case "missing_markers":
			markers := strings.Split(val, ",")
			for i := range markers {
				markers[i] = strings.TrimSpace(markers[i])
			}
			cfg.MissingMarkers = markers
		case "head_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for head_rows: %v", val)
			}
			cfg.HeadRows = i
		case "max_display_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_display_rows: %v", val)
			}
			cfg.MaxDisplayRows = i
		case "chart_width", "chart_height":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "chart_width" {
				cfg.ChartWidth = f
			} else {
				cfg.ChartHeight = f
			}
		case "histogram_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for histogram_bins: %v", val)
			}
			cfg.HistogramBins = i
		case "preview_dir":
			cfg.PreviewDir = val
		case "viewer":
			cfg.Viewer = val
		case "data_dir":
			cfg.DataDir = val
		case "log_level":
			if _, err := logger.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// quoteAll makes empty markers visible.
func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Quote(v)
	}
	return out
}
