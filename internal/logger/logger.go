// Package logger provides process-wide logging for the resumex CLI.
// It keeps a small printf-style API for command code and exposes the
// underlying zap logger for services that log structured fields.
//
// When verbose mode is enabled via the --verbose flag, debug and info
// messages are printed to stderr to help users follow the extraction
// pipeline. Warnings are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = New(false, os.Stderr)
)

// New builds a console logger writing to w. Verbose loggers emit debug
// messages; others emit warnings and above.
func New(verbose bool, w io.Writer) *zap.Logger {
	enc := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      bracketLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func bracketLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = New(verbose, output)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = New(verbose, output)
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
