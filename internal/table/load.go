package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNotFound is returned by Load when the path does not exist.
var ErrNotFound = errors.New("file not found")

// Options controls how files are read.
type Options struct {
	// Delimiter separates fields in .csv and unknown-extension files.
	Delimiter rune
	// MissingMarkers lists raw cell texts that load as missing values.
	MissingMarkers []string
}

// Reader decodes one file format into a DataFrame.
type Reader interface {
	CanRead(filename string) bool
	Read(r io.Reader, opt Options) dataframe.DataFrame
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(tsvReader{})
	Register(jsonReader{})
	Register(delimitedReader{})
}

// Load reads the file at path with the first registered reader that accepts
// its name; unknown extensions are read as delimited text.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		return nil, fmt.Errorf("open dataset: %s is a directory", path)
	}

	var reader Reader = delimitedReader{}
	for _, r := range registry {
		if r.CanRead(path) {
			reader = r
			break
		}
	}
	df := reader.Read(f, opt)
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if df.Ncol() == 0 {
		return nil, fmt.Errorf("parse %s: no columns", filepath.Base(path))
	}
	return New(filepath.Base(path), df)
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

type delimitedReader struct{}

func (delimitedReader) CanRead(filename string) bool { return hasExt(filename, ".csv", ".txt") }

func (delimitedReader) Read(r io.Reader, opt Options) dataframe.DataFrame {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	return readDelimited(r, delim, opt.MissingMarkers)
}

type tsvReader struct{}

func (tsvReader) CanRead(filename string) bool { return hasExt(filename, ".tsv", ".tab") }

func (tsvReader) Read(r io.Reader, opt Options) dataframe.DataFrame {
	return readDelimited(r, '\t', opt.MissingMarkers)
}

// readDelimited loads delimited records with gota. A file holding only a
// header row loads as a table with those columns and no rows.
func readDelimited(r io.Reader, delim rune, markers []string) dataframe.DataFrame {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{Err: err}
	}
	if len(records) == 1 {
		return headerOnly(records[0])
	}
	return dataframe.LoadRecords(records, dataframe.NaNValues(markers))
}

func headerOnly(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

type jsonReader struct{}

func (jsonReader) CanRead(filename string) bool { return hasExt(filename, ".json") }

// Read expects an array of flat objects. gota prints absent or null members
// as <nil>, so that text is always treated as missing.
func (jsonReader) Read(r io.Reader, opt Options) dataframe.DataFrame {
	markers := append([]string{"<nil>"}, opt.MissingMarkers...)
	return dataframe.ReadJSON(r, dataframe.NaNValues(markers))
}
