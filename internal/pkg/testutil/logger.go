package testutil

import (
	"os"
	"testing"

	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"
)

// LogLevelEnv overrides the level of test loggers, e.g. HOLE_TEST_LOG_LEVEL=debug.
const LogLevelEnv = "HOLE_TEST_LOG_LEVEL"

// SetupTestLogger returns a text logger on stdout. Tests only log errors unless
// LogLevelEnv asks for more.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	level := os.Getenv(LogLevelEnv)
	if level == "" {
		level = config.LogLevelError
	}

	return logger.NewWriterLogger(os.Stdout, config.LogFormatText, level).With("test", t.Name())
}
