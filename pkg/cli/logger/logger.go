package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var (
	logger  *slog.Logger
	logFile *os.File
)

func init() {
	// Create log directory if it doesn't exist
	logDir := "tmp"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// If we can't create log dir, just use stderr
		logger = newLogger(os.Stderr)
		return
	}

	// Create log file with timestamp
	logFileName := filepath.Join(logDir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))

	var err error
	logFile, err = os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger = newLogger(os.Stderr)
		return
	}

	// Write only to the file so the TUI owns stdout
	logger = newLogger(logFile)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(slog.String("component", "cli"))
}

// SetOutput redirects the log, mainly for tests.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// Logger returns the underlying structured logger
func Logger() *slog.Logger {
	return logger
}

// Log writes a log message
func Log(format string, v ...any) {
	if logger != nil {
		logger.Info(fmt.Sprintf(format, v...))
	}
}

// LogError writes an error log message
func LogError(err error, format string, v ...any) {
	if logger != nil {
		logger.Error(fmt.Sprintf(format, v...), slog.Any("error", err))
	}
}

// CloseLog closes the log file
func CloseLog() {
	if logFile != nil {
		logFile.Close()
	}
}
