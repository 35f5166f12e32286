package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Render validates req against t and draws the chart. Rows where a column
// the chart needs is missing are skipped.
func Render(t *table.Table, req Request, opt Options) (*Chart, error) {
	if err := validate(t, req); err != nil {
		return nil, err
	}
	w, h := opt.size()
	c := &Chart{Request: req, Dataset: t.Name(), width: w, height: h}

	if req.Kind == Pie {
		pie, err := pieChart(t, req, w, h)
		if err != nil {
			return nil, err
		}
		c.pie = pie
		return c, nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", req.X, req.Y)
	p.X.Label.Text = req.X
	p.Y.Label.Text = req.Y
	p.Add(plotter.NewGrid())

	var err error
	switch req.Kind {
	case Bar:
		err = addBars(p, t, req, w)
	case Line:
		err = addLine(p, t, req)
	case Scatter:
		err = addScatter(p, t, req)
	case Hist:
		err = addHist(p, t, req, opt.Bins)
	case Area:
		err = addArea(p, t, req)
	default:
		err = fmt.Errorf("unknown chart kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}
	c.plot = p
	return c, nil
}

// validate checks that the columns a kind reads exist and are numeric where
// the kind plots their values.
func validate(t *table.Table, req Request) error {
	var uses, numeric []string
	switch req.Kind {
	case Bar, Line:
		uses, numeric = []string{req.X, req.Y}, []string{req.Y}
	case Scatter, Area:
		uses, numeric = []string{req.X, req.Y}, []string{req.X, req.Y}
	case Pie:
		uses = []string{req.Y}
	case Hist:
		uses, numeric = []string{req.Y}, []string{req.Y}
	default:
		return fmt.Errorf("unknown chart kind %q", req.Kind)
	}
	for _, col := range uses {
		if !t.Has(col) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	for _, col := range numeric {
		if !t.IsNumeric(col) {
			return fmt.Errorf("%w: %q", ErrNotNumeric, col)
		}
	}
	return nil
}

func addBars(p *plot.Plot, t *table.Table, req Request, width vg.Length) error {
	labels, err := t.Strings(req.X)
	if err != nil {
		return err
	}
	ys, err := t.Floats(req.Y)
	if err != nil {
		return err
	}
	var values plotter.Values
	var names []string
	for i, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		values = append(values, y)
		names = append(names, labels[i])
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrNoData, req.Y)
	}
	barWidth := 0.8 * width / vg.Length(len(values))
	if barWidth > vg.Points(20) {
		barWidth = vg.Points(20)
	}
	if barWidth < vg.Points(1) {
		barWidth = vg.Points(1)
	}
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return nil
}

func addLine(p *plot.Plot, t *table.Table, req Request) error {
	ys, err := t.Floats(req.Y)
	if err != nil {
		return err
	}
	var pts plotter.XYs
	if t.IsNumeric(req.X) {
		xs, err := t.Floats(req.X)
		if err != nil {
			return err
		}
		pts = pairs(xs, ys)
	} else {
		labels, err := t.Strings(req.X)
		if err != nil {
			return err
		}
		var names []string
		for i, y := range ys {
			if math.IsNaN(y) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(len(names)), Y: y})
			names = append(names, labels[i])
		}
		p.NominalX(names...)
	}
	if len(pts) == 0 {
		return fmt.Errorf("%w: %s", ErrNoData, req.Y)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	return nil
}

func addScatter(p *plot.Plot, t *table.Table, req Request) error {
	xs, err := t.Floats(req.X)
	if err != nil {
		return err
	}
	ys, err := t.Floats(req.Y)
	if err != nil {
		return err
	}
	pts := pairs(xs, ys)
	if len(pts) == 0 {
		return fmt.Errorf("%w: %s, %s", ErrNoData, req.X, req.Y)
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = plotutil.Color(0)
	p.Add(sc)
	return nil
}

func addHist(p *plot.Plot, t *table.Table, req Request, bins int) error {
	ys, err := t.Floats(req.Y)
	if err != nil {
		return err
	}
	var values plotter.Values
	for _, y := range ys {
		if !math.IsNaN(y) && !math.IsInf(y, 0) {
			values = append(values, y)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrNoData, req.Y)
	}
	if bins <= 0 {
		bins = 10
	}
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return err
	}
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)
	return nil
}

// addArea stacks y on top of x, both drawn against the row position.
func addArea(p *plot.Plot, t *table.Table, req Request) error {
	xs, err := t.Floats(req.X)
	if err != nil {
		return err
	}
	ys, err := t.Floats(req.Y)
	if err != nil {
		return err
	}
	var lower, upper plotter.XYs
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		lower = append(lower, plotter.XY{X: float64(i), Y: xs[i]})
		upper = append(upper, plotter.XY{X: float64(i), Y: xs[i] + ys[i]})
	}
	if len(lower) == 0 {
		return fmt.Errorf("%w: %s, %s", ErrNoData, req.X, req.Y)
	}
	top, err := plotter.NewLine(upper)
	if err != nil {
		return err
	}
	top.FillColor = plotutil.Color(1)
	top.Color = plotutil.Color(1)
	bottom, err := plotter.NewLine(lower)
	if err != nil {
		return err
	}
	bottom.FillColor = plotutil.Color(0)
	bottom.Color = plotutil.Color(0)
	// the upper band is drawn first so the lower one stays visible
	p.Add(top, bottom)
	p.Legend.Add(req.X, bottom)
	p.Legend.Add(req.Y, top)
	p.Legend.Top = true
	return nil
}

// pairs zips xs and ys, dropping rows where either is missing.
func pairs(xs, ys []float64) plotter.XYs {
	var pts plotter.XYs
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

// pieChart draws the value counts of req.Y, largest slice first.
func pieChart(t *table.Table, req Request, w, h vg.Length) (*gochart.PieChart, error) {
	counts, err := t.ValueCounts(req.Y)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, vc := range counts {
		total += vc.Count
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, req.Y)
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	values := make([]gochart.Value, 0, len(counts))
	for _, vc := range counts {
		pct := 100 * float64(vc.Count) / float64(total)
		values = append(values, gochart.Value{
			Value: float64(vc.Count),
			Label: fmt.Sprintf("%s (%.1f%%)", vc.Value, pct),
		})
	}
	return &gochart.PieChart{
		Title:  fmt.Sprintf("%s vs %s", req.X, req.Y),
		Width:  int(math.Round(float64(w/vg.Inch) * pixelsPerInch)),
		Height: int(math.Round(float64(h/vg.Inch) * pixelsPerInch)),
		Values: values,
	}, nil
}
