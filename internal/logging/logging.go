// Package logging builds the process logger. Console output goes to
// stderr so it never pollutes parseable stdout; an optional rotating
// JSON file (WORKON_LOG_FILE) captures debug-level detail for
// troubleshooting hook and git failures after the fact.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileEnv names the environment variable enabling file logging.
const LogFileEnv = "WORKON_LOG_FILE"

// New constructs the logger. Console logging is warn-and-above by
// default so normal runs stay quiet; verbose lowers it to debug.
func New(verbose bool) *zap.Logger {
	consoleLevel := zapcore.WarnLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			consoleLevel,
		),
	}

	if path := os.Getenv(LogFileEnv); path != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			writer,
			zapcore.DebugLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}
