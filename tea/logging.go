package tea

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// maxLogSize triggers rotation of an existing log file
const maxLogSize = 10 * 1024 * 1024

// LogToFile opens path for appending and returns a logger writing to it.
// The terminal belongs to the renderer, so diagnostics go to a file. An
// existing file over maxLogSize is moved to path+".1" first. Close the
// returned file when the program ends.
func LogToFile(path, prefix string) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		if err := os.Rename(path, path+".1"); err != nil {
			return nil, nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	return logger, f, nil
}
