package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// MissingCount returns the total number of missing cells.
func (t *Table) MissingCount() int {
	n := 0
	for _, name := range t.Names() {
		for _, na := range t.df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
	}
	return n
}

// MissingByColumn returns the missing-cell count per column, in column order.
func (t *Table) MissingByColumn() []int {
	names := t.Names()
	out := make([]int, len(names))
	for i, name := range names {
		for _, na := range t.df.Col(name).IsNaN() {
			if na {
				out[i]++
			}
		}
	}
	return out
}

// missingRows marks the rows holding at least one missing cell.
func (t *Table) missingRows() []bool {
	mask := make([]bool, t.Rows())
	for _, name := range t.Names() {
		for i, na := range t.df.Col(name).IsNaN() {
			if na {
				mask[i] = true
			}
		}
	}
	return mask
}

// RowsWithMissing returns the rows holding at least one missing cell.
func (t *Table) RowsWithMissing() *Table {
	var rows []int
	for i, missing := range t.missingRows() {
		if missing {
			rows = append(rows, i)
		}
	}
	return t.subset(rows)
}

// FillMean replaces the missing cells of every numeric column with the mean
// of that column's present values. Affected int columns become float.
// Columns with no present values are left as they are. It returns the names
// of the columns it changed.
func (t *Table) FillMean() ([]string, error) {
	df := t.df
	var filled []string
	for _, name := range t.Names() {
		s := df.Col(name)
		if !isNumeric(s.Type()) || !s.HasNaN() {
			continue
		}
		values := s.Float()
		present := presentValues(values)
		if len(present) == 0 {
			continue
		}
		mean := stat.Mean(present, nil)
		for i, v := range values {
			if math.IsNaN(v) {
				values[i] = mean
			}
		}
		df = df.Mutate(series.New(values, series.Float, name))
		filled = append(filled, name)
	}
	if len(filled) == 0 {
		return nil, nil
	}
	return filled, t.replace(df, t.index)
}

// DropMissing removes every row holding a missing cell and returns how many
// rows were dropped. Surviving rows keep their original labels.
func (t *Table) DropMissing() (int, error) {
	mask := t.missingRows()
	var keep []int
	for i, missing := range mask {
		if !missing {
			keep = append(keep, i)
		}
	}
	dropped := len(mask) - len(keep)
	if dropped == 0 {
		return 0, nil
	}
	view := t.subset(keep)
	return dropped, t.replace(view.df, view.index)
}

// FillValue puts value into every missing cell. A column whose type cannot
// hold value is converted to a string column first. Present cells of typed
// columns keep their exact values.
func (t *Table) FillValue(value string) error {
	df := t.df
	changed := false
	for _, name := range t.Names() {
		s := df.Col(name)
		if !s.HasNaN() {
			continue
		}
		filled, err := fillSeries(s, value)
		if err != nil {
			return fmt.Errorf("fill %s: %w", name, err)
		}
		df = df.Mutate(filled)
		changed = true
	}
	if !changed {
		return nil
	}
	return t.replace(df, t.index)
}

// fillSeries returns a copy of s with its missing cells set to value.
func fillSeries(s series.Series, value string) (series.Series, error) {
	if !fits(value, s.Type()) {
		cells := make([]string, s.Len())
		for i := range cells {
			if e := s.Elem(i); e.IsNA() {
				cells[i] = value
			} else {
				cells[i] = exactElement(e)
			}
		}
		return series.New(cells, series.String, s.Name), nil
	}
	out := s.Copy()
	for i := 0; i < out.Len(); i++ {
		if e := out.Elem(i); e.IsNA() {
			e.Set(value)
		}
	}
	return out, out.Err
}

// fits reports whether value parses as a present element of typ.
func fits(value string, typ series.Type) bool {
	switch typ {
	case series.Int:
		_, err := strconv.Atoi(value)
		return err == nil
	case series.Float:
		f, err := strconv.ParseFloat(value, 64)
		return err == nil && !math.IsNaN(f)
	case series.Bool:
		switch strings.ToLower(value) {
		case "true", "t", "1", "false", "f", "0":
			return true
		}
		return false
	}
	return true
}

func presentValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
