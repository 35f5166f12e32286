package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/history"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/spf13/cobra"
)

var chartsLimit int

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "List saved charts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := history.Load(currentConfig().HistoryPath())
		if err != nil {
			return err
		}
		entries := h.List(chartsLimit)
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "(no charts)")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.SavedAt.Local().Format(time.DateTime),
				e.Kind,
				e.Dataset,
				e.X,
				e.Y,
				e.Path,
			})
		}
		table.WriteGrid(out, []string{"saved", "kind", "dataset", "x", "y", "path"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsCmd.Flags().IntVarP(&chartsLimit, "limit", "n", 20, "maximum entries to show (0 = all)")
}
