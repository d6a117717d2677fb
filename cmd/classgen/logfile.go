package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// logFileEnv names the environment variable used when --log-file is not set.
const logFileEnv = "CLASSGEN_LOG"

// openLogFile opens path for appending, creating its directory if needed.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
