// Package history records every chart written to disk in a JSON file under
// the data directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
	"github.com/google/uuid"
)

const FileName = "history.json"

// Entry describes one saved chart.
type Entry struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Kind    string    `json:"kind"`
	X       string    `json:"x"`
	Y       string    `json:"y"`
	Dataset string    `json:"dataset"`
	SavedAt time.Time `json:"saved_at"`
}

// History is the on-disk list of saved charts.
type History struct {
	Entries []Entry `json:"entries"`

	// Not serialized: location of the history file
	path string `json:"-"`
}

// Load reads the history file at path. A missing file yields an empty history.
func Load(path string) (*History, error) {
	h := &History{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(b, h); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	return h, nil
}

// Save writes the history file using atomic write.
func (h *History) Save() error {
	if h.path == "" {
		return errors.New("history path not set")
	}
	data, err := utils.PrettyJSON(h)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(h.path, data)
}

// Add appends e, filling in its ID and timestamp when empty.
func (h *History) Add(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	if abs, err := filepath.Abs(e.Path); err == nil {
		e.Path = abs
	}
	h.Entries = append(h.Entries, e)
	return e
}

// List returns up to limit entries, newest first. limit <= 0 means all.
func (h *History) List(limit int) []Entry {
	out := make([]Entry, len(h.Entries))
	copy(out, h.Entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Append loads the history at path, adds e and saves it again.
func Append(path string, e Entry) (Entry, error) {
	h, err := Load(path)
	if err != nil {
		return Entry{}, err
	}
	e = h.Add(e)
	if err := h.Save(); err != nil {
		return Entry{}, err
	}
	return e, nil
}
