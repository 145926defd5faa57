// Package log provides logging functionality for servicedeck.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger defines the interface for logging operations.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps slog.Logger to implement our Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Info logs an info message.
func (s *SlogAdapter) Info(msg string, args ...any) {
	s.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) {
	s.logger.Error(msg, args...)
}

// NewLogger creates a logger writing to stderr with the specified verbosity.
func NewLogger(verbose bool) Logger {
	return NewWriterLogger(os.Stderr, verbose)
}

// NewWriterLogger creates a logger writing text records to w.
// The interactive browser owns the terminal, so it logs to a file or io.Discard.
func NewWriterLogger(w io.Writer, verbose bool) Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}

	if verbose {
		opts.Level = slog.LevelDebug
	}

	return &SlogAdapter{logger: slog.New(slog.NewTextHandler(w, opts))}
}

// NewFileLogger opens path for appending and returns a logger writing to it
// together with the file so the caller can close it.
func NewFileLogger(path string, verbose bool) (Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewWriterLogger(f, verbose), f, nil
}

// Nop returns a logger that drops every record.
func Nop() Logger {
	return NewWriterLogger(io.Discard, false)
}

var defaultLogger Logger

// GetLogger returns a default logger instance for convenience.
func GetLogger() Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(false)
	}
	return defaultLogger
}

// Init initializes the default logger with the specified verbosity.
func Init(verbose bool) {
	defaultLogger = NewLogger(verbose)
}

// NewSlogAdapter creates a Logger from an slog.Logger.
func NewSlogAdapter(slogLogger *slog.Logger) Logger {
	return &SlogAdapter{logger: slogLogger}
}
