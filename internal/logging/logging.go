package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	JSONFormat   = "json"
	TextFormat   = "text"
	LogfmtFormat = "logfmt"
)

// New creates a logger writing to w with the given level and format names.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := GetLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := getFormatter(format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       f,
		ReportTimestamp: true,
		Prefix:          "chores",
	}), nil
}

// OpenFile opens (appending) the log file used while the TUI owns the screen.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func GetLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return log.ErrorLevel, nil
	case "warn", "warning", "":
		return log.WarnLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "debug", "trace":
		return log.DebugLevel, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

func getFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case TextFormat, "":
		return log.TextFormatter, nil
	case LogfmtFormat:
		return log.LogfmtFormatter, nil
	case JSONFormat:
		return log.JSONFormatter, nil
	}
	return 0, fmt.Errorf("unknown log format %q", format)
}
