package chart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Preview writes the chart as a PNG under dir with a unique name and returns
// the file path.
func (c *Chart) Preview(dir string) (string, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "tabloom")
	}
	path := filepath.Join(dir, "chart-"+uuid.New().String()+".png")
	return c.Save(path)
}

// View runs the viewer command on path and waits for it to exit. The viewer
// string may carry arguments ("feh -F"); the path is appended last.
func View(ctx context.Context, viewer, path string) error {
	args := strings.Fields(viewer)
	if len(args) == 0 {
		return errors.New("no viewer configured")
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run viewer %s: %w", args[0], err)
	}
	return nil
}
