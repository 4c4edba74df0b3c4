package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. When a log file is configured it owns the handle.
type Logger struct {
	*logrus.Logger
	f *os.File
}

// NewLogger logs to path, or to stderr when path is empty.
func NewLogger(path, level string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	l.SetLevel(lvl)

	if path == "" {
		l.SetOutput(os.Stderr)
		return &Logger{Logger: l}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l.SetOutput(f)
	return &Logger{Logger: l, f: f}, nil
}

// NopLogger discards everything; handy for tests and library callers.
func NopLogger() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

func (l *Logger) Close() error {
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}
