package chat

import (
	"bufio"
	"os"
	"path/filepath"
)

const historyMax = 1000

// History keeps the lines typed in chat mode, persisted between runs.
type History struct {
	entries []string
	file    string
}

// NewHistory creates a History backed by the given file. An empty
// path keeps history in memory only.
func NewHistory(file string) *History {
	return &History{file: file}
}

// DefaultHistoryFile returns the default history path.
func DefaultHistoryFile() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".relaymesh", "history")
}

// Add appends a line, dropping the oldest past the size cap.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
	if len(h.entries) > historyMax {
		h.entries = h.entries[1:]
	}
}

// Get returns the entry at index, 0 being the most recent.
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load reads history from file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}

	f, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes history to file.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	f, err := os.Create(h.file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
