package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type slogLogger struct {
	logger *slog.Logger
}

// NewWriterLogger creates a logger writing records in format (text or json) to w.
func NewWriterLogger(w io.Writer, format, level string) Logger {
	return &slogLogger{logger: slog.New(newHandler(w, format, level))}
}

func (l *slogLogger) Debug(msg string, keyvals ...interface{}) {
	l.logger.Debug(msg, keyvals...)
}

func (l *slogLogger) Info(msg string, keyvals ...interface{}) {
	l.logger.Info(msg, keyvals...)
}

func (l *slogLogger) Warn(msg string, keyvals ...interface{}) {
	l.logger.Warn(msg, keyvals...)
}

func (l *slogLogger) Error(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
}

// Fatal logs at error level and exits.
func (l *slogLogger) Fatal(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
	os.Exit(1)
}

// Panic logs at error level and panics with the message and its attributes.
func (l *slogLogger) Panic(msg string, keyvals ...interface{}) {
	l.logger.Error(msg, keyvals...)
	panic(formatPanic(msg, keyvals...))
}

func (l *slogLogger) With(keyvals ...interface{}) Logger {
	return &slogLogger{logger: l.logger.With(keyvals...)}
}

func formatPanic(msg string, keyvals ...interface{}) string {
	if len(keyvals) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %v", msg, keyvals)
}
