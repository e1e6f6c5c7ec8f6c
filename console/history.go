package console

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultHistoryName = ".ion_history"
	MaxHistory         = 1000
)

// History is the list of lines entered across sessions.
type History struct {
	Path  string
	Lines []string
}

// DefaultHistoryPath is ~/.ion_history, or the current directory when there is no home.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHistoryName
	}
	return filepath.Join(home, DefaultHistoryName)
}

// LoadHistory reads path. A missing file yields an empty history.
func LoadHistory(path string) (*History, error) {
	h := &History{Path: path}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return h, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.Lines = append(h.Lines, line)
		}
	}
	return h, scanner.Err()
}

// Add appends line unless it repeats the previous entry.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(h.Lines); n > 0 && h.Lines[n-1] == line {
		return
	}
	h.Lines = append(h.Lines, line)
}

// Save writes the last MaxHistory lines back to Path.
func (h *History) Save() error {
	if h.Path == "" {
		return nil
	}
	lines := h.Lines
	if len(lines) > MaxHistory {
		lines = lines[len(lines)-MaxHistory:]
	}
	file, err := os.Create(h.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
