package analysis

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markers = []string{"", "NA", "NaN"}

func loadCSV(t *testing.T, content string) *table.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tb, err := table.Load(path, table.Options{Delimiter: ',', MissingMarkers: markers})
	require.NoError(t, err)
	return tb
}

func TestQuantileMatchesLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, quantile(sorted, 0.25))
	assert.Equal(t, 2.5, quantile(sorted, 0.5))
	assert.Equal(t, 3.25, quantile(sorted, 0.75))
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 4.0, quantile(sorted, 1))
	assert.Equal(t, 0.0, quantile(nil, 0.5))
}

func TestDescribeSkipsMissingAndNonNumeric(t *testing.T) {
	tb := loadCSV(t, "A,B,C,D\n1,x,true,10\n2,y,false,20\n,z,true,30\n4,w,true,40\n")
	d := Describe(tb)
	require.Len(t, d.Columns, 2)

	a := d.Columns[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, 3, a.Count)
	assert.InDelta(t, 7.0/3.0, a.Mean, 1e-12)
	assert.InDelta(t, 1.527525, a.Std, 1e-6)
	assert.Equal(t, 1.0, a.Min)
	assert.Equal(t, 1.5, a.Q1)
	assert.Equal(t, 2.0, a.Median)
	assert.Equal(t, 3.0, a.Q3)
	assert.Equal(t, 4.0, a.Max)

	assert.Equal(t, "D", d.Columns[1].Name)
	assert.Equal(t, 4, d.Columns[1].Count)
}

func TestDescribeSingleValueHasNoStd(t *testing.T) {
	tb := loadCSV(t, "A\n5\n")
	d := Describe(tb)
	require.Len(t, d.Columns, 1)
	assert.True(t, math.IsNaN(d.Columns[0].Std))
	assert.Equal(t, 5.0, d.Columns[0].Median)
}

func TestDescribeNoNumericColumns(t *testing.T) {
	tb := loadCSV(t, "s\na\nb\n")
	assert.True(t, Describe(tb).Empty())
}

func TestFillMeanThenDescribe(t *testing.T) {
	tb := loadCSV(t, "A,B\n1,x\n2,y\n,z\n")
	_, err := tb.FillMean()
	require.NoError(t, err)

	a, err := tb.Floats("A")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 1.5}, a)

	d := Describe(tb)
	require.Len(t, d.Columns, 1)
	assert.Equal(t, 3, d.Columns[0].Count)
	assert.Equal(t, 1.5, d.Columns[0].Mean)
	assert.InDelta(t, 0.5, d.Columns[0].Std, 1e-12)
	assert.Equal(t, 1.25, d.Columns[0].Q1)
	assert.Equal(t, 1.75, d.Columns[0].Q3)
}

func TestDescriptionRender(t *testing.T) {
	tb := loadCSV(t, "A,B\n1,x\n2,y\n,z\n")
	var buf bytes.Buffer
	Describe(tb).Render(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, []string{"A"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"count", "2.0"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"mean", "1.5"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"std", "0.707107"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"max", "2.0"}, strings.Fields(lines[8]))
}

func TestFormatStat(t *testing.T) {
	assert.Equal(t, "0.333333", FormatStat(1.0/3.0))
	assert.Equal(t, "3.0", FormatStat(3))
	assert.Equal(t, "NaN", FormatStat(math.NaN()))
}

func TestAnalyzeAndMarkdown(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,score,group,other\n")
	scores := []string{"10", "11", "9", "10", "12", "10", "11", "9", "95", ""}
	groups := []string{"a", "a", "b", "a", "b", "a", "c", "a", "b", "a"}
	for i, s := range scores {
		sb.WriteString(strings.Join([]string{strconv.Itoa(i), s, groups[i], strconv.Itoa(i * 2)}, ","))
		sb.WriteString("\n")
	}
	tb := loadCSV(t, sb.String())

	opt := DefaultOptions()
	opt.Correlations = true
	rep := Analyze(tb, opt)
	assert.Equal(t, "data.csv", rep.Name)
	assert.Equal(t, 10, rep.Rows)
	require.Len(t, rep.Cols, 4)
	require.Len(t, rep.Samples, 5)

	score := rep.Cols[1]
	assert.Equal(t, 9, score.NonNull)
	assert.Equal(t, 1, score.Missing)
	assert.Equal(t, 1, score.OutliersCount)
	assert.Greater(t, score.OutliersMaxAbsZ, 3.5)

	group := rep.Cols[2]
	require.NotEmpty(t, group.TopValues)
	assert.Equal(t, CategoryCount{Value: "a", Count: 6}, group.TopValues[0])
	assert.Equal(t, 3, group.Unique)

	require.NotNil(t, rep.Corr)
	assert.Equal(t, []string{"id", "score", "other"}, rep.Corr.Columns)
	assert.InDelta(t, 1.0, rep.Corr.Values[0][2], 1e-9)

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: data.csv",
		"Rows: 10",
		"- score: int (non-null 9, missing 10.0%); outliers: 1 above |z|>3.5",
		"- group: string (non-null 10, missing 0.0%); top: a(6), b(3), c(1)",
		"[DESCRIPTIVE STATISTICS]",
		"| count | 10.0 | 9.0 | 10.0 |",
		"[CORRELATIONS]",
		"- id ~ other: r=1.000",
		"[HEAD AND SAMPLE ROWS]",
		"[NOTES]",
		"1 missing cells in 1 rows",
	} {
		assert.Contains(t, md, want)
	}

	var buf bytes.Buffer
	rep.Render(&buf)
	assert.Contains(t, buf.String(), "data.csv: 10 rows x 4 columns")
	assert.Contains(t, buf.String(), "count")
}

func TestMarkdownTruncatesWideCellsOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", 100)
	tb := loadCSV(t, "name,n\n"+long+",1\n")

	md := Analyze(tb, DefaultOptions()).Markdown()
	assert.True(t, utf8.ValidString(md))
	assert.Contains(t, md, "| "+strings.Repeat("é", 77)+"... | 1 |")
}
