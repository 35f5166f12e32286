// Package chart renders tables into bar, line, scatter, pie, histogram and
// stacked area charts, and writes them to image files.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var (
	ErrUnknownColumn     = errors.New("unknown column")
	ErrNotNumeric        = errors.New("column is not numeric")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNoData            = errors.New("no values to plot")
)

// Kind names a chart type.
type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Scatter Kind = "scatter"
	Pie     Kind = "pie"
	Hist    Kind = "hist"
	Area    Kind = "area"
)

// Kinds lists every chart type in menu order.
var Kinds = []Kind{Bar, Line, Scatter, Pie, Hist, Area}

var kindLabels = map[Kind]string{
	Bar:     "Bar Plot",
	Line:    "Line Plot",
	Scatter: "Scatter Plot",
	Pie:     "Pie chart",
	Hist:    "Histogram",
	Area:    "Stack Plot",
}

// Label is the menu text of k.
func (k Kind) Label() string { return kindLabels[k] }

// ParseKind accepts a 1-based menu number or a kind name.
func ParseKind(choice string) (Kind, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	switch choice {
	case "1", "bar":
		return Bar, true
	case "2", "line":
		return Line, true
	case "3", "scatter":
		return Scatter, true
	case "4", "pie":
		return Pie, true
	case "5", "hist", "histogram":
		return Hist, true
	case "6", "area", "stack":
		return Area, true
	}
	return "", false
}

// Request selects what to draw.
type Request struct {
	Kind Kind
	X    string
	Y    string
}

// Options controls chart geometry.
type Options struct {
	// Width and Height are in inches.
	Width  float64
	Height float64
	Bins   int
}

// DefaultOptions mirrors the usual 6.4x4.8 inch figure.
func DefaultOptions() Options {
	return Options{Width: 6.4, Height: 4.8, Bins: 10}
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 6.4
	}
	if h <= 0 {
		h = 4.8
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// pixelsPerInch sizes raster pie charts.
const pixelsPerInch = 100

// Chart is a rendered figure that can be written to disk any number of times.
type Chart struct {
	Request
	Dataset string

	plot   *plot.Plot
	pie    *gochart.PieChart
	width  vg.Length
	height vg.Length
}

var (
	pieFormats  = []string{"png", "svg"}
	plotFormats = []string{"png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff", "tex"}
)

// Formats lists the file extensions the chart can be written as.
func (c *Chart) Formats() []string {
	if c.pie != nil {
		return pieFormats
	}
	return plotFormats
}

func (c *Chart) supports(format string) bool {
	for _, f := range c.Formats() {
		if f == format {
			return true
		}
	}
	return false
}

// WriteTo encodes the chart in the given format ("png", "svg", ...).
func (c *Chart) WriteTo(w io.Writer, format string) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if c.pie != nil {
		switch format {
		case "png":
			return c.pie.Render(gochart.PNG, w)
		case "svg":
			return c.pie.Render(gochart.SVG, w)
		}
	} else if c.supports(format) {
		wt, err := c.plot.WriterTo(c.width, c.height, format)
		if err != nil {
			return err
		}
		_, err = wt.WriteTo(w)
		return err
	}
	return fmt.Errorf("%w: %q (use %s)", ErrUnsupportedFormat, format, strings.Join(c.Formats(), ", "))
}

// Save writes the chart to path, picking the format from its extension. A
// path without an extension gets ".png". It returns the path written.
func (c *Chart) Save(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("empty file name")
	}
	ext := filepath.Ext(path)
	if ext == "" {
		path += ".png"
		ext = ".png"
	}
	var buf bytes.Buffer
	if err := c.WriteTo(&buf, ext); err != nil {
		return "", err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
