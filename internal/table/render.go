package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// edgeRows is how many rows are kept at each end of a truncated listing.
const edgeRows = 5

// WriteGrid prints header and rows as a borderless, right-aligned grid.
func WriteGrid(w io.Writer, header []string, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetHeaderLine(false)
	tw.SetColumnSeparator("")
	tw.SetCenterSeparator("")
	tw.SetRowSeparator("")
	tw.SetNoWhiteSpace(true)
	tw.SetTablePadding("  ")
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_RIGHT)
	tw.AppendBulk(rows)
	tw.Render()
}

// Render prints the table with row labels. When maxRows is positive and the
// table is longer, only the first and last rows are printed with a "..."
// line between them, followed by the table's dimensions.
func (t *Table) Render(w io.Writer, maxRows int) {
	names := t.Names()
	if t.Rows() == 0 {
		fmt.Fprintln(w, "Empty DataFrame")
		fmt.Fprintf(w, "Columns: %s\n", utils.JoinList(names))
		fmt.Fprintln(w, "Index: []")
		return
	}

	header := append([]string{""}, names...)
	truncated := maxRows > 0 && t.Rows() > maxRows
	var rows [][]string
	if truncated {
		edge := edgeRows
		if maxRows < 2*edgeRows {
			edge = max(maxRows/2, 1)
		}
		for r := 0; r < edge; r++ {
			rows = append(rows, t.row(r))
		}
		gap := make([]string, len(header))
		for i := range gap {
			gap[i] = "..."
		}
		rows = append(rows, gap)
		for r := t.Rows() - edge; r < t.Rows(); r++ {
			rows = append(rows, t.row(r))
		}
	} else {
		for r := 0; r < t.Rows(); r++ {
			rows = append(rows, t.row(r))
		}
	}
	WriteGrid(w, header, rows)
	if truncated {
		fmt.Fprintf(w, "\n[%d rows x %d columns]\n", t.Rows(), t.Cols())
	}
}

func (t *Table) row(r int) []string {
	out := make([]string, 0, t.Cols()+1)
	out = append(out, strconv.Itoa(t.index[r]))
	for c := 0; c < t.Cols(); c++ {
		out = append(out, utils.TruncateCell(t.Cell(r, c), utils.MaxCellWidth))
	}
	return out
}

// RenderInfo prints a structural summary in the familiar dataframe layout.
func RenderInfo(w io.Writer, sum Summary) {
	if sum.Rows == 0 {
		fmt.Fprintln(w, "Index: 0 entries")
	} else {
		fmt.Fprintf(w, "Index: %d entries, %d to %d\n", sum.Rows, sum.First, sum.Last)
	}
	fmt.Fprintf(w, "Data columns (total %d columns):\n", len(sum.Columns))
	rows := make([][]string, 0, len(sum.Columns))
	counts := map[string]int{}
	var order []string
	for i, c := range sum.Columns {
		rows = append(rows, []string{
			strconv.Itoa(i),
			utils.TruncateCell(c.Name, utils.MaxCellWidth),
			fmt.Sprintf("%d non-null", c.NonNull),
			string(c.Type),
		})
		if counts[string(c.Type)] == 0 {
			order = append(order, string(c.Type))
		}
		counts[string(c.Type)]++
	}
	WriteGrid(w, []string{"#", "Column", "Non-Null Count", "Dtype"}, rows)
	fmt.Fprint(w, "dtypes:")
	for i, typ := range order {
		sep := ","
		if i == 0 {
			sep = ""
		}
		fmt.Fprintf(w, "%s %s(%d)", sep, typ, counts[typ])
	}
	fmt.Fprintln(w)
}

// RenderTypes prints one "name  type" line per column.
func (t *Table) RenderTypes(w io.Writer) {
	rows := make([][]string, 0, t.Cols())
	types := t.Types()
	for i, name := range t.Names() {
		rows = append(rows, []string{utils.TruncateCell(name, utils.MaxCellWidth), string(types[i])})
	}
	tw := tablewriter.NewWriter(w)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetColumnSeparator("")
	tw.SetCenterSeparator("")
	tw.SetRowSeparator("")
	tw.SetNoWhiteSpace(true)
	tw.SetTablePadding("  ")
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(rows)
	tw.Render()
}
