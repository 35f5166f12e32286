// Package session runs the interactive menu loop over a loaded table.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/chart"
	"github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logger"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// Options configures a Session.
type Options struct {
	Load           table.Options
	HeadRows       int
	MaxDisplayRows int
	Chart          chart.Options
	PreviewDir     string
	Viewer         string
	// HistoryPath is where saved charts are recorded; empty disables it.
	HistoryPath string
}

// OptionsFromConfig maps the global configuration onto session options.
func OptionsFromConfig(c *config.Global) Options {
	opt := Options{
		Load: table.Options{
			Delimiter:      c.DelimiterRune(),
			MissingMarkers: c.MissingMarkers,
		},
		HeadRows:       c.HeadRows,
		MaxDisplayRows: c.MaxDisplayRows,
		Chart: chart.Options{
			Width:  c.ChartWidth,
			Height: c.ChartHeight,
			Bins:   c.HistogramBins,
		},
		PreviewDir: c.PreviewDir,
		Viewer:     c.Viewer,
	}
	if c.DataDir != "" {
		opt.HistoryPath = c.HistoryPath()
	}
	return opt
}

// Session holds at most one loaded table and one current chart.
type Session struct {
	id   string
	in   *bufio.Scanner
	out  io.Writer
	opt  Options
	data *table.Table
	fig  *chart.Chart
}

// New creates a session reading answers from in and printing to out.
func New(in io.Reader, out io.Writer, opt Options) *Session {
	if opt.HeadRows <= 0 {
		opt.HeadRows = 5
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Session{
		id:  uuid.NewString(),
		in:  sc,
		out: out,
		opt: opt,
	}
}

// Table returns the loaded table, or nil.
func (s *Session) Table() *table.Table { return s.data }

// Chart returns the current chart, or nil.
func (s *Session) Chart() *chart.Chart { return s.fig }

const mainMenu = `Please select an option:
1. Load Dataset
2. Explore Data
3. Perform DataFrame Operations
4. Handle Missing Data
5. Generate Descriptive Statistics
6. Data Visualization
7. Save Visualization
8. Exit`

// Run drives the main menu until the user exits, input ends or ctx is
// cancelled.
func (s *Session) Run(ctx context.Context) error {
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).WithValues(logger.SessionKey, s.id))
	log := logger.FromContext(ctx)
	log.V(1).Info("session started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(mainMenu)
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			s.println("")
			s.println("Exiting the program.")
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.load(ctx)
		case "2":
			s.explore(ctx)
		case "3":
			s.transform(ctx)
		case "4":
			s.missing(ctx)
		case "5":
			s.statistics(ctx)
		case "6":
			s.visualize(ctx)
		case "7":
			s.save(ctx)
		case "8":
			s.println("Exiting the program.")
			log.V(1).Info("session ended")
			return nil
		default:
			s.println("Invalid choice")
		}
	}
}

// prompt prints text and reads one line. ok is false once input is exhausted.
func (s *Session) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func logFor(ctx context.Context) logr.Logger {
	return logger.FromContext(ctx)
}
