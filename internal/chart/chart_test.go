package chart

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sample(t *testing.T) *table.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := "month,units,price,region\n" +
		"jan,10,1.5,north\n" +
		"feb,12,1.7,south\n" +
		"mar,,1.6,north\n" +
		"apr,9,1.9,north\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tb, err := table.Load(path, table.Options{Delimiter: ',', MissingMarkers: []string{""}})
	require.NoError(t, err)
	return tb
}

func TestParseKind(t *testing.T) {
	for i, k := range Kinds {
		got, ok := ParseKind(string(rune('1' + i)))
		require.True(t, ok)
		assert.Equal(t, k, got)
		got, ok = ParseKind(string(k))
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("7")
	assert.False(t, ok)
	_, ok = ParseKind("")
	assert.False(t, ok)
	assert.Equal(t, "Stack Plot", Area.Label())
}

func TestRenderEveryKind(t *testing.T) {
	tb := sample(t)
	reqs := []Request{
		{Kind: Bar, X: "month", Y: "units"},
		{Kind: Line, X: "month", Y: "units"},
		{Kind: Line, X: "price", Y: "units"},
		{Kind: Scatter, X: "price", Y: "units"},
		{Kind: Pie, X: "month", Y: "region"},
		{Kind: Hist, X: "month", Y: "price"},
		{Kind: Area, X: "price", Y: "units"},
	}
	for _, req := range reqs {
		c, err := Render(tb, req, DefaultOptions())
		require.NoError(t, err, req)
		assert.Equal(t, "sales.csv", c.Dataset)

		var buf bytes.Buffer
		require.NoError(t, c.WriteTo(&buf, "png"), req)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), req)
	}
}

func TestRenderValidatesColumns(t *testing.T) {
	tb := sample(t)

	_, err := Render(tb, Request{Kind: Bar, X: "nope", Y: "units"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = Render(tb, Request{Kind: Bar, X: "month", Y: "region"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Render(tb, Request{Kind: Scatter, X: "month", Y: "units"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = Render(tb, Request{Kind: Hist, X: "anything", Y: "month"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNotNumeric)

	// pie and histogram never read x
	_, err = Render(tb, Request{Kind: Pie, X: "anything", Y: "region"}, DefaultOptions())
	assert.NoError(t, err)

	_, err = Render(tb, Request{Kind: "radar", X: "month", Y: "units"}, DefaultOptions())
	assert.Error(t, err)
}

func TestPieLabels(t *testing.T) {
	c, err := Render(sample(t), Request{Kind: Pie, X: "month", Y: "region"}, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, c.pie)
	require.Len(t, c.pie.Values, 2)
	assert.Equal(t, "north (75.0%)", c.pie.Values[0].Label)
	assert.Equal(t, 3.0, c.pie.Values[0].Value)
	assert.Equal(t, "south (25.0%)", c.pie.Values[1].Label)
	assert.Equal(t, "month vs region", c.pie.Title)
	assert.Equal(t, 640, c.pie.Width)
	assert.Equal(t, 480, c.pie.Height)
}

func TestSaveFormats(t *testing.T) {
	tb := sample(t)
	dir := t.TempDir()

	line, err := Render(tb, Request{Kind: Line, X: "price", Y: "units"}, DefaultOptions())
	require.NoError(t, err)

	path, err := line.Save(filepath.Join(dir, "out.svg"))
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")

	path, err = line.Save(filepath.Join(dir, "noext"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "noext.png"), path)

	_, err = line.Save(filepath.Join(dir, "out.bmp"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	pie, err := Render(tb, Request{Kind: Pie, X: "month", Y: "region"}, DefaultOptions())
	require.NoError(t, err)
	_, err = pie.Save(filepath.Join(dir, "pie.pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = pie.Save(filepath.Join(dir, "pie.png"))
	assert.NoError(t, err)

	_, err = line.Save("")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	c, err := Render(sample(t), Request{Kind: Scatter, X: "price", Y: "units"}, DefaultOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := c.Preview(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "chart-"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestView(t *testing.T) {
	assert.Error(t, View(context.Background(), "  ", "x.png"))

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	assert.NoError(t, View(context.Background(), "true --ignored", "x.png"))
}

func TestAxisLabelsUseColumnNames(t *testing.T) {
	tb := sample(t)
	for _, kind := range []Kind{Bar, Line, Scatter, Area} {
		x := "price"
		if kind == Bar {
			x = "month"
		}
		c, err := Render(tb, Request{Kind: kind, X: x, Y: "units"}, DefaultOptions())
		require.NoError(t, err, kind)
		assert.Equal(t, x, c.plot.X.Label.Text, kind)
		assert.Equal(t, "units", c.plot.Y.Label.Text, kind)
	}
}

func TestPieCountsCloseFloatsSeparately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte("v\n1.00000001e-05\n1.00000002e-05\n1.00000002e-05\n"), 0o644))
	tb, err := table.Load(path, table.Options{MissingMarkers: []string{""}})
	require.NoError(t, err)

	c, err := Render(tb, Request{Kind: Pie, Y: "v"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, c.pie.Values, 2)
	assert.Equal(t, "1.00000002e-05 (66.7%)", c.pie.Values[0].Label)
	assert.Equal(t, "1.00000001e-05 (33.3%)", c.pie.Values[1].Label)
}

func TestUnsupportedFormatListsChoices(t *testing.T) {
	tb := sample(t)
	pie, err := Render(tb, Request{Kind: Pie, Y: "region"}, DefaultOptions())
	require.NoError(t, err)
	_, err = pie.Save(filepath.Join(t.TempDir(), "pie.pdf"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "use png, svg")

	bar, err := Render(tb, Request{Kind: Bar, X: "month", Y: "units"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, plotFormats, bar.Formats())
	_, err = bar.Save(filepath.Join(t.TempDir(), "bar.bmp"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), strings.Join(plotFormats, ", "))
}
