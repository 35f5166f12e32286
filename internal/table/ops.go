package table

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
)

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	n = clamp(n, t.Rows())
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.subset(rows)
}

// Tail returns the last n rows.
func (t *Table) Tail(n int) *Table {
	n = clamp(n, t.Rows())
	start := t.Rows() - n
	rows := make([]int, n)
	for i := range rows {
		rows[i] = start + i
	}
	return t.subset(rows)
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

// SortBy returns the rows ordered ascending by col. The sort is stable and
// missing values go last.
func (t *Table) SortBy(col string) (*Table, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return t.subset(s.Order(false)), nil
}

// FilterEq returns the rows whose col equals value. value is converted to the
// column's type first, so "2" matches an int 2 while text that does not parse
// as the column type matches nothing.
func (t *Table) FilterEq(col, value string) (*Table, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	cmp := s.Compare(series.Eq, value)
	if cmp.Err != nil {
		return nil, cmp.Err
	}
	mask, err := cmp.Bool()
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0)
	for i, ok := range mask {
		if ok {
			rows = append(rows, i)
		}
	}
	return t.subset(rows), nil
}

// Unique returns the distinct values of col in first-seen order. All
// missing cells collapse into a single NaN.
func (t *Table) Unique(col string) ([]string, error) {
	counts, err := t.valueCounts(col, true)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(counts))
	for i, vc := range counts {
		out[i] = vc.Value
	}
	return out, nil
}

// ValueCount is one distinct value of a column and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts returns the distinct present values of col in first-seen
// order with their counts. Floats are compared by value, not by how they
// print.
func (t *Table) ValueCounts(col string) ([]ValueCount, error) {
	return t.valueCounts(col, false)
}

func (t *Table) valueCounts(col string, withMissing bool) ([]ValueCount, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	pos := map[string]int{}
	out := make([]ValueCount, 0)
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() && !withMissing {
			continue
		}
		key := valueKey(e)
		if j, ok := pos[key]; ok {
			out[j].Count++
			continue
		}
		pos[key] = len(out)
		out = append(out, ValueCount{Value: exactElement(e), Count: 1})
	}
	return out, nil
}

// valueKey identifies an element by its typed value.
func valueKey(e series.Element) string {
	if e.IsNA() {
		return "na"
	}
	if e.Type() == series.Float {
		f := e.Float()
		if f == 0 {
			f = 0 // -0 and +0 are the same value
		}
		return "f" + strconv.FormatUint(math.Float64bits(f), 16)
	}
	return "v" + e.String()
}

// ColumnInfo describes one column of the structural summary.
type ColumnInfo struct {
	Name    string
	NonNull int
	Type    series.Type
}

// Summary is the structural overview printed by Info.
type Summary struct {
	Rows    int
	First   int
	Last    int
	Columns []ColumnInfo
}

// Info summarises the table's shape and per-column non-null counts.
func (t *Table) Info() Summary {
	sum := Summary{Rows: t.Rows()}
	if len(t.index) > 0 {
		sum.First = t.index[0]
		sum.Last = t.index[len(t.index)-1]
	}
	for _, name := range t.Names() {
		s := t.df.Col(name)
		nonNull := 0
		for _, na := range s.IsNaN() {
			if !na {
				nonNull++
			}
		}
		sum.Columns = append(sum.Columns, ColumnInfo{Name: name, NonNull: nonNull, Type: s.Type()})
	}
	return sum
}
