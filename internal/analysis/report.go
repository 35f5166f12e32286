package analysis

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Options controls which optional sections a Report carries.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset reports.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly overview of a loaded table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Stats    Description
	Samples  [][]string
	Warnings []string
	Corr     *CorrMatrix
}

// ColumnSummary captures the type and missing-value picture of one column.
type ColumnSummary struct {
	Name    string
	Type    series.Type
	NonNull int
	Missing int
	Unique  int
	// Outliers (robust Z via MAD), numeric columns only
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Top values of string and bool columns
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Analyze builds a Report for t.
func Analyze(t *table.Table, opt Options) *Report {
	rep := &Report{Name: t.Name(), Rows: t.Rows(), Stats: Describe(t)}

	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	head := t.Head(sampleRows)
	for r := 0; r < head.Rows(); r++ {
		row := make([]string, head.Cols())
		for c := range row {
			row[c] = head.Cell(r, c)
		}
		rep.Samples = append(rep.Samples, row)
	}

	missing := t.MissingByColumn()
	types := t.Types()
	numeric := map[string][]float64{}
	var numCols []string
	for i, name := range t.Names() {
		s := ColumnSummary{Name: name, Type: types[i], Missing: missing[i], NonNull: t.Rows() - missing[i]}
		cells, _ := t.Strings(name)
		switch types[i] {
		case series.Int, series.Float:
			values, err := t.Floats(name)
			if err != nil {
				break
			}
			numeric[name] = values
			numCols = append(numCols, name)
			present := presentOnly(values)
			if opt.Outliers && len(present) >= 8 {
				s.OutlierThreshold = opt.OutlierThreshold
				if s.OutlierThreshold <= 0 {
					s.OutlierThreshold = 3.5
				}
				s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(present, s.OutlierThreshold)
			}
			s.Unique = countDistinct(cells)
		default:
			s.TopValues, s.Unique = topValues(cells, 8)
		}
		rep.Cols = append(rep.Cols, s)
	}

	if total := t.MissingCount(); total > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d missing cells in %d rows", total, t.RowsWithMissing().Rows()))
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = correlations(numCols, numeric)
	}
	return rep
}

func presentOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func countDistinct(cells []string) int {
	seen := map[string]struct{}{}
	for _, c := range cells {
		if c == "NaN" {
			continue
		}
		seen[c] = struct{}{}
	}
	return len(seen)
}

func topValues(cells []string, limit int) ([]CategoryCount, int) {
	counts := map[string]int{}
	for _, c := range cells {
		if c == "NaN" {
			continue
		}
		counts[c]++
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops, len(counts)
}

// correlations computes pairwise Pearson r over the rows where both columns
// are present.
func correlations(cols []string, values map[string][]float64) *CorrMatrix {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			xs, ys := values[cols[a]], values[cols[b]]
			var x, y []float64
			for i := range xs {
				if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
					continue
				}
				x = append(x, xs[i])
				y = append(y, ys[i])
			}
			r := 0.0
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}
}

func robustOutliers(values []float64, thr float64) (int, float64) {
	median, mad := medianMAD(values)
	if mad == 0 {
		return 0, 0
	}
	var cnt int
	maxAbsZ := 0.0
	for _, v := range values {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			cnt++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return cnt, maxAbsZ
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// Render prints the report for a terminal: the statistics grid followed by a
// missing-value overview.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "%s: %d rows x %d columns\n\n", r.Name, r.Rows, len(r.Cols))
	if r.Stats.Empty() {
		fmt.Fprintln(w, "No numeric columns to describe.")
	} else {
		r.Stats.Render(w)
	}
	fmt.Fprintln(w)
	rows := make([][]string, 0, len(r.Cols))
	for _, c := range r.Cols {
		rows = append(rows, []string{c.Name, string(c.Type), strconv.Itoa(c.NonNull), strconv.Itoa(c.Missing)})
	}
	table.WriteGrid(w, []string{"column", "type", "non-null", "missing"}, rows)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "\n! %s\n", warn)
	}
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Type, c.NonNull, missPct))
		if c.OutlierThreshold > 0 {
			b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
			if c.OutliersMaxAbsZ > 0 {
				b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
			}
		}
		if len(c.TopValues) > 0 {
			b.WriteString("; top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	if !r.Stats.Empty() {
		b.WriteString("\n[DESCRIPTIVE STATISTICS]\n")
		b.WriteString("| stat")
		for _, c := range r.Stats.Columns {
			b.WriteString(" | ")
			b.WriteString(safeVal(safeName(c.Name)))
		}
		b.WriteString(" |\n|---")
		for range r.Stats.Columns {
			b.WriteString(" | ---")
		}
		b.WriteString(" |\n")
		for i, name := range StatNames {
			b.WriteString("| ")
			b.WriteString(name)
			for _, c := range r.Stats.Columns {
				b.WriteString(" | ")
				b.WriteString(FormatStat(c.Values()[i]))
			}
			b.WriteString(" |\n")
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(safeName(c.Name)))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				b.WriteString(safeVal(utils.TruncateCell(val, 80)))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
