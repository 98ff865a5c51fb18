// Package logging builds the generator's logger.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stderr. Console output is plain and
// human-readable; json selects zap's production encoding. verbose lowers the
// level to Debug.
func New(verbose, json bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	if json {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}

		return config.Build()
	}

	return NewConsole(os.Stderr, level), nil
}

// NewConsole returns a console logger writing to w.
func NewConsole(w io.Writer, level zapcore.Level) *zap.Logger {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.TimeKey = ""
	encoder.CallerKey = ""
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.AddSync(w),
		level,
	))
}
