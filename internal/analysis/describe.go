package analysis

import (
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// StatNames are the row labels of a description, in print order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// ColumnStats holds the summary statistics of one numeric column, computed
// over its present values only.
type ColumnStats struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Values returns the statistics in StatNames order.
func (c ColumnStats) Values() []float64 {
	return []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q1, c.Median, c.Q3, c.Max}
}

// Description is the per-column summary of every numeric column of a table.
type Description struct {
	Columns []ColumnStats
}

// Empty reports whether the table had no numeric columns.
func (d Description) Empty() bool { return len(d.Columns) == 0 }

// Describe summarises each int and float column of t. Bool and string
// columns are skipped.
func Describe(t *table.Table) Description {
	var d Description
	types := t.Types()
	for i, name := range t.Names() {
		if types[i] != series.Int && types[i] != series.Float {
			continue
		}
		values, err := t.Floats(name)
		if err != nil {
			continue
		}
		d.Columns = append(d.Columns, describeValues(name, values))
	}
	return d
}

func describeValues(name string, values []float64) ColumnStats {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	cs := ColumnStats{Name: name, Count: len(present)}
	if len(present) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q1, cs.Median, cs.Q3, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}
	sort.Float64s(present)
	cs.Mean = stat.Mean(present, nil)
	cs.Std = math.NaN()
	if len(present) > 1 {
		cs.Std = stat.StdDev(present, nil)
	}
	cs.Min = present[0]
	cs.Max = present[len(present)-1]
	cs.Q1 = quantile(present, 0.25)
	cs.Median = quantile(present, 0.5)
	cs.Q3 = quantile(present, 0.75)
	return cs
}

// Render prints the description with one row per statistic and one column
// per numeric column.
func (d Description) Render(w io.Writer) {
	header := []string{""}
	for _, c := range d.Columns {
		header = append(header, c.Name)
	}
	rows := make([][]string, len(StatNames))
	for i, name := range StatNames {
		rows[i] = []string{name}
	}
	for _, c := range d.Columns {
		for i, v := range c.Values() {
			rows[i] = append(rows[i], FormatStat(v))
		}
	}
	table.WriteGrid(w, header, rows)
}

// FormatStat rounds v to six significant digits for display.
func FormatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return table.FormatFloat(v)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 6, 64), 64)
	if err != nil {
		r = v
	}
	return table.FormatFloat(r)
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
