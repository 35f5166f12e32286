package session

import (
	"context"
	"errors"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/chart"
	"github.com/KaramelBytes/tabloom-cli/internal/history"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

func (s *Session) load(ctx context.Context) {
	path, ok := s.prompt("Enter CSV file path: ")
	if !ok {
		return
	}
	s.Load(ctx, path)
}

// Load replaces the current table with the file at path and drops the
// current chart. On failure no table is loaded.
func (s *Session) Load(ctx context.Context, path string) bool {
	log := logFor(ctx)
	path = strings.TrimSpace(path)
	s.fig = nil
	t, err := table.Load(path, s.opt.Load)
	if err != nil {
		s.data = nil
		log.Info("dataset not loaded", "path", path, "error", err.Error())
		if errors.Is(err, table.ErrNotFound) {
			s.println("File not found.")
		} else {
			s.println("Failed to load dataset:", err.Error())
		}
		return false
	}
	s.data = t
	log.Info("dataset loaded", "path", path, "rows", t.Rows(), "cols", t.Cols())
	s.println("Dataset loaded successfully!")
	s.printf("(%d rows x %d columns)\n", t.Rows(), t.Cols())
	return true
}

const exploreMenu = `1. Display the first 5 rows
2. Display the last 5 rows
3. Display column names
4. Display data types
5. Display basic info
6. Back to main menu`

func (s *Session) explore(ctx context.Context) {
	if s.data == nil {
		s.println("Please load a dataset.")
		return
	}
	for {
		if ctx.Err() != nil {
			return
		}
		s.println(exploreMenu)
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			return
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.data.Head(s.opt.HeadRows).Render(s.out, s.opt.MaxDisplayRows)
		case "2":
			s.data.Tail(s.opt.HeadRows).Render(s.out, s.opt.MaxDisplayRows)
		case "3":
			s.println(utils.JoinList(s.data.Names()))
		case "4":
			s.data.RenderTypes(s.out)
		case "5":
			table.RenderInfo(s.out, s.data.Info())
		case "6":
			return
		default:
			s.println("Invalid choice!")
		}
	}
}

const transformMenu = `1. Sort by Column
2. Filter Rows by Value
3. Display Unique Values of a Column`

func (s *Session) transform(ctx context.Context) {
	if s.data == nil {
		s.println("Please load a dataset first.")
		return
	}
	s.println(transformMenu)
	choice, ok := s.prompt("Choose operation: ")
	if !ok {
		return
	}
	switch strings.TrimSpace(choice) {
	case "1":
		col, ok := s.prompt("Enter column to sort by: ")
		if !ok {
			return
		}
		sorted, err := s.data.SortBy(col)
		if err != nil {
			s.columnError(ctx, err)
			return
		}
		sorted.Render(s.out, s.opt.MaxDisplayRows)
	case "2":
		col, ok := s.prompt("Enter column to filter by: ")
		if !ok {
			return
		}
		value, ok := s.prompt("Enter value to filter: ")
		if !ok {
			return
		}
		rows, err := s.data.FilterEq(col, value)
		if err != nil {
			s.columnError(ctx, err)
			return
		}
		rows.Render(s.out, s.opt.MaxDisplayRows)
	case "3":
		col, ok := s.prompt("Enter column to view unique values: ")
		if !ok {
			return
		}
		values, err := s.data.Unique(col)
		if err != nil {
			s.columnError(ctx, err)
			return
		}
		s.println(utils.JoinList(values))
	default:
		s.println("Invalid operation.")
	}
}

func (s *Session) columnError(ctx context.Context, err error) {
	if errors.Is(err, table.ErrNoColumn) {
		s.println("Column not found.")
		return
	}
	logFor(ctx).Info("operation failed", "error", err.Error())
	s.println("Operation failed:", err.Error())
}

const missingMenu = `1. Display rows with missing values
2. Fill missing values with mean
3. Drop rows with missing values
4. Replace missing values with a specific value`

func (s *Session) missing(ctx context.Context) {
	if s.data == nil {
		s.println("Please load a dataset first.")
		return
	}
	log := logFor(ctx)
	s.println(missingMenu)
	choice, ok := s.prompt("Enter your choice: ")
	if !ok {
		return
	}
	// choice is consumed before the check
	if s.data.MissingCount() == 0 {
		s.println("No missing values.")
		return
	}
	switch strings.TrimSpace(choice) {
	case "1":
		s.data.RowsWithMissing().Render(s.out, s.opt.MaxDisplayRows)
	case "2":
		cols, err := s.data.FillMean()
		if err != nil {
			s.cleanError(ctx, err)
			return
		}
		log.Info("missing values filled with mean", "columns", cols)
		s.println("Missing values filled.")
	case "3":
		n, err := s.data.DropMissing()
		if err != nil {
			s.cleanError(ctx, err)
			return
		}
		log.Info("rows with missing values dropped", "rows", n)
		s.println("Missing values dropped.")
	case "4":
		value, ok := s.prompt("Enter the value to replace missing values with: ")
		if !ok {
			return
		}
		if err := s.data.FillValue(value); err != nil {
			s.cleanError(ctx, err)
			return
		}
		log.Info("missing values replaced", "value", value)
		s.println("Missing values replaced.")
	default:
		s.println("Invalid choice.")
	}
}

func (s *Session) cleanError(ctx context.Context, err error) {
	logFor(ctx).Info("missing-value operation failed", "error", err.Error())
	s.println("Operation failed:", err.Error())
}

func (s *Session) statistics(ctx context.Context) {
	if s.data == nil {
		s.println("Please load a dataset.")
		return
	}
	d := analysis.Describe(s.data)
	if d.Empty() {
		s.println("No numeric columns to describe.")
		return
	}
	logFor(ctx).V(1).Info("describe", "columns", len(d.Columns))
	d.Render(s.out)
}

func (s *Session) visualize(ctx context.Context) {
	if s.data == nil {
		s.println("Please load a dataset.")
		return
	}
	log := logFor(ctx)
	for i, k := range chart.Kinds {
		s.printf("%d. %s\n", i+1, k.Label())
	}
	choice, ok := s.prompt("Enter your choice: ")
	if !ok {
		return
	}
	x, ok := s.prompt("Enter x-axis column name: ")
	if !ok {
		return
	}
	y, ok := s.prompt("Enter y-axis column name: ")
	if !ok {
		return
	}
	kind, ok := chart.ParseKind(choice)
	if !ok {
		s.println("Invalid choice.")
		return
	}

	c, err := chart.Render(s.data, chart.Request{Kind: kind, X: x, Y: y}, s.opt.Chart)
	if err != nil {
		log.Info("chart not rendered", "kind", kind, "x", x, "y", y, "error", err.Error())
		s.println("Cannot render chart:", err.Error())
		return
	}
	preview, err := c.Preview(s.opt.PreviewDir)
	if err != nil {
		log.Info("chart preview not written", "error", err.Error())
		s.println("Cannot render chart:", err.Error())
		return
	}
	s.fig = c
	log.Info("chart rendered", "kind", kind, "x", x, "y", y, "preview", preview)
	s.println("Chart rendered:", preview)
	if s.opt.Viewer != "" {
		if err := chart.View(ctx, s.opt.Viewer, preview); err != nil {
			log.Info("viewer failed", "error", err.Error())
		}
	}
}

func (s *Session) save(ctx context.Context) {
	log := logFor(ctx)
	name, ok := s.prompt("Enter file name to save: ")
	if !ok {
		return
	}
	if s.fig == nil {
		s.println("No visualization to save. Create one first.")
		return
	}
	path, err := s.fig.Save(strings.TrimSpace(name))
	if err != nil {
		log.Info("chart not saved", "path", name, "error", err.Error())
		s.println("Failed to save visualization:", err.Error())
		return
	}
	s.printf("%s saved successfully!\n", path)
	log.Info("chart saved", "path", path)
	Record(ctx, s.opt.HistoryPath, s.fig, path)
}

// Record appends a saved chart to the history file. Failures are logged only.
func Record(ctx context.Context, historyPath string, c *chart.Chart, path string) {
	if historyPath == "" {
		return
	}
	_, err := history.Append(historyPath, history.Entry{
		Path:    path,
		Kind:    string(c.Kind),
		X:       c.X,
		Y:       c.Y,
		Dataset: c.Dataset,
	})
	if err != nil {
		logFor(ctx).Error(err, "history not updated", "path", historyPath)
	}
}
