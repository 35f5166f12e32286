// Package table holds the in-memory dataset: a gota DataFrame plus the
// original row labels, so views produced by sorting and filtering still
// show where each row came from.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNoColumn is returned when a column name is not part of the table.
var ErrNoColumn = errors.New("column not found")

// Table is a loaded dataset. Methods that return *Table produce new views and
// leave the receiver untouched; the cleaning methods in missing.go replace the
// receiver's frame in place.
type Table struct {
	name  string
	df    dataframe.DataFrame
	index []int
}

// New wraps df, labelling rows 0..n-1.
func New(name string, df dataframe.DataFrame) (*Table, error) {
	if err := df.Error(); err != nil {
		return nil, err
	}
	index := make([]int, df.Nrow())
	for i := range index {
		index[i] = i
	}
	return &Table{name: name, df: df, index: index}, nil
}

// Name is the base name of the file the table was loaded from.
func (t *Table) Name() string { return t.name }

func (t *Table) Rows() int { return t.df.Nrow() }
func (t *Table) Cols() int { return t.df.Ncol() }

// Names returns the column names in order.
func (t *Table) Names() []string { return t.df.Names() }

// Types returns the column types in order.
func (t *Table) Types() []series.Type { return t.df.Types() }

// Index returns the original row labels of the rows in this view.
func (t *Table) Index() []int { return append([]int(nil), t.index...) }

// Has reports whether col is one of the table's columns.
func (t *Table) Has(col string) bool {
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Column returns a copy of the named series.
func (t *Table) Column(col string) (series.Series, error) {
	if !t.Has(col) {
		return series.Series{}, fmt.Errorf("%w: %s", ErrNoColumn, col)
	}
	return t.df.Col(col), nil
}

// IsNumeric reports whether col holds int or float values.
func (t *Table) IsNumeric(col string) bool {
	s, err := t.Column(col)
	if err != nil {
		return false
	}
	return isNumeric(s.Type())
}

func isNumeric(typ series.Type) bool {
	return typ == series.Int || typ == series.Float
}

// Floats returns the values of a numeric column; missing cells are NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	if !isNumeric(s.Type()) {
		return nil, fmt.Errorf("column %s is %s, not numeric", col, s.Type())
	}
	return s.Float(), nil
}

// Strings returns the display form of every cell in col.
func (t *Table) Strings(col string) ([]string, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return formatSeries(s), nil
}

// Cell returns the display form of the cell at row r, column c.
func (t *Table) Cell(r, c int) string {
	return FormatElement(t.df.Elem(r, c))
}

// subset returns a view made of the given row positions.
func (t *Table) subset(rows []int) *Table {
	if rows == nil {
		rows = []int{}
	}
	index := make([]int, len(rows))
	for i, r := range rows {
		index[i] = t.index[r]
	}
	return &Table{name: t.name, df: t.df.Subset(rows), index: index}
}

// replace swaps in a new frame with the given row labels.
func (t *Table) replace(df dataframe.DataFrame, index []int) error {
	if err := df.Error(); err != nil {
		return err
	}
	t.df = df
	t.index = index
	return nil
}

// FormatElement renders a cell for display. Missing cells print as NaN.
func FormatElement(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	switch e.Type() {
	case series.Float:
		return FormatFloat(e.Float())
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return "NaN"
		}
		return strconv.Itoa(v)
	}
	return e.String()
}

// FormatFloat prints f compactly while keeping a decimal point on whole
// numbers, so float columns stay recognisable (2 prints as 2.0). Very large
// and very small magnitudes use exponent notation with six digits.
func FormatFloat(f float64) string { return formatFloat(f, 6) }

// FormatExact is FormatFloat without rounding: it prints the shortest text
// that reads back as f.
func FormatExact(f float64) string { return formatFloat(f, -1) }

func formatFloat(f float64, expPrec int) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', expPrec, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for _, r := range s {
		if r == '.' {
			return s
		}
	}
	return s + ".0"
}

// exactElement is FormatElement with floats printed in full.
func exactElement(e series.Element) string {
	if !e.IsNA() && e.Type() == series.Float {
		return FormatExact(e.Float())
	}
	return FormatElement(e)
}

func formatSeries(s series.Series) []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = FormatElement(s.Elem(i))
	}
	return out
}
