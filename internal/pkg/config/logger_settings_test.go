//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerSettingsValidation(t *testing.T) {
	fileSettings := func(modify func(*LoggerSettings)) *LoggerSettings {
		s := &LoggerSettings{
			LogLevel:   LogLevelInfo,
			LogType:    LogTypeFile,
			FilePath:   "/var/log/hole/hole.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		if modify != nil {
			modify(s)
		}
		return s
	}

	tests := []struct {
		name     string
		settings *LoggerSettings
		valid    bool
	}{
		{"console text", &LoggerSettings{LogLevel: LogLevelInfo, LogType: LogTypeConsole}, true},
		{"console json with service", &LoggerSettings{LogLevel: LogLevelDebug, LogType: LogTypeConsole, Format: LogFormatJSON, Service: "hole"}, true},
		{"unknown format", &LoggerSettings{LogLevel: LogLevelInfo, LogType: LogTypeConsole, Format: "xml"}, false},
		{"missing level", &LoggerSettings{LogType: LogTypeConsole}, false},
		{"unknown level", &LoggerSettings{LogLevel: "trace", LogType: LogTypeConsole}, false},
		{"unknown type", &LoggerSettings{LogLevel: LogLevelInfo, LogType: "syslog"}, false},
		{"file with rotation", fileSettings(nil), true},
		{"file without path", fileSettings(func(s *LoggerSettings) { s.FilePath = "" }), false},
		{"file without rotation", fileSettings(func(s *LoggerSettings) { s.MaxSize, s.MaxBackups, s.MaxAge = 0, 0, 0 }), false},
		{"file with oversized files", fileSettings(func(s *LoggerSettings) { s.MaxSize = 101 }), false},
		{"file with too many backups", fileSettings(func(s *LoggerSettings) { s.MaxBackups = 11 }), false},
		{"console ignores missing path", &LoggerSettings{LogLevel: LogLevelError, LogType: LogTypeConsole, MaxSize: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
