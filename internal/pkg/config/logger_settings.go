package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Log levels, from most to least verbose. Critical maps to error.
const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

// Log destinations.
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// Record formats. Files are always written as JSON.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LoggerSettings selects where records go and how verbose they are.
// The rotation fields only apply to file logging.
type LoggerSettings struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warning error critical"`
	LogType  string `mapstructure:"log_type" validate:"required,oneof=console file"`
	// Format of console records, text when empty.
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	// Service is attached to every record when set.
	Service string `mapstructure:"service"`

	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size" validate:"omitempty,min=1,max=100"`
	MaxBackups int    `mapstructure:"max_backups" validate:"omitempty,min=1,max=10"`
	MaxAge     int    `mapstructure:"max_age" validate:"omitempty,min=1,max=365"`
}

// Validate checks the settings, requiring a path and rotation limits for file logging
func (s *LoggerSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	if s.LogType != LogTypeFile {
		return nil
	}
	if s.FilePath == "" {
		return errors.New("file path is required for file logger")
	}
	if s.MaxSize == 0 || s.MaxBackups == 0 || s.MaxAge == 0 {
		return errors.New("file logger requires max_size, max_backups and max_age")
	}
	return nil
}
