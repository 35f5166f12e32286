package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ",", c.Delimiter)
	assert.Equal(t, 5, c.HeadRows)
	assert.Equal(t, 10, c.HistogramBins)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, filepath.Join(home, ".tabloom"), c.DataDir)
	assert.Equal(t, filepath.Join(home, ".tabloom", "history.json"), c.HistoryPath())
	assert.Contains(t, c.MissingMarkers, "NA")
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.yaml")

	c := Default()
	c.Delimiter = ";"
	c.HistogramBins = 20
	c.Viewer = "feh"
	require.NoError(t, Save(c, path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ";", got.Delimiter)
	assert.Equal(t, ';', got.DelimiterRune())
	assert.Equal(t, 20, got.HistogramBins)
	assert.Equal(t, "feh", got.Viewer)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABLOOM_HEAD_ROWS", "3")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, c.HeadRows)
}

func TestDelimiterRune(t *testing.T) {
	cases := map[string]rune{"": ',', ",": ',', "tab": '\t', "|": '|'}
	for in, want := range cases {
		c := &Global{Delimiter: in}
		assert.Equal(t, want, c.DelimiterRune(), "delimiter %q", in)
	}
}
