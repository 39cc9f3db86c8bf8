// Package logging builds the invocation-scoped zap logger. Hook stdout is
// reserved for the decision object, so everything here goes to stderr and,
// in debug mode, to a log file under the state directory.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger for one invocation. The caller passes it down;
// there is no global logger.
func New(debug bool, stateDir string) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if debug && stateDir != "" {
		if file := openLogFile(stateDir); file != nil {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(file),
				zapcore.DebugLevel,
			))
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Nop returns a logger that discards everything, for tests
func Nop() *zap.Logger {
	return zap.NewNop()
}

func openLogFile(stateDir string) *os.File {
	logDir := filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil
	}
	file, err := os.OpenFile(filepath.Join(logDir, "claimcheck.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	return file
}
