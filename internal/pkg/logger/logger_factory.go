package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/d1s-utils/hole/internal/pkg/config"

	"github.com/natefinch/lumberjack"
)

var (
	loggerInstance Logger
	loggerErr      error
	loggerOnce     sync.Once
)

// InitLogger builds the process-wide logger from settings. Only the first call has an effect.
func InitLogger(settings *config.LoggerSettings) error {
	loggerOnce.Do(func() {
		loggerInstance, loggerErr = New(settings)
	})
	return loggerErr
}

// GetLogger returns the logger built by InitLogger.
func GetLogger() (Logger, error) {
	if loggerInstance == nil {
		return nil, errors.New("logger not initialized: call InitLogger first")
	}
	return loggerInstance, nil
}

// New builds a standalone logger from settings.
func New(settings *config.LoggerSettings) (Logger, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var handler slog.Handler
	switch settings.LogType {
	case config.LogTypeConsole:
		handler = newHandler(os.Stdout, settings.Format, settings.LogLevel)
	case config.LogTypeFile:
		handler = newHandler(&lumberjack.Logger{
			Filename:   settings.FilePath,
			MaxSize:    settings.MaxSize,
			MaxBackups: settings.MaxBackups,
			MaxAge:     settings.MaxAge,
			Compress:   true,
		}, config.LogFormatJSON, settings.LogLevel)
	default:
		return nil, fmt.Errorf("unsupported log type: %s", settings.LogType)
	}

	if settings.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", settings.Service)})
	}
	return &slogLogger{logger: slog.New(handler)}, nil
}

func newHandler(w io.Writer, format, level string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError, config.LogLevelCritical:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
