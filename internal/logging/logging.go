// internal/logging/logging.go
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a stderr-style logger at the given level ("debug", "info",
// "warn", "error"). verbose forces debug. An unknown level falls back to info
// and is reported once at warn level.
func New(w io.Writer, level string, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "porecat",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return logger
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
		logger.Warn("unknown log-level, defaulting to info", "provided", level)
	}
	return logger
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}
