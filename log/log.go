//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package log provides logging utilities.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "T",
	LevelKey:       "L",
	NameKey:        "N",
	CallerKey:      "C",
	MessageKey:     "M",
	StacktraceKey:  "S",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Logger is the minimal logging interface the harness depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Default borrows logging utilities from zap.
// Replace it with any implementation of Logger if needed.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// SetLevel sets the level of the default logger.
// Unrecognized levels are ignored.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	}
}

// Debugf logs a debug message using the default logger.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Infof logs an info message using the default logger.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warnf logs a warning message using the default logger.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Errorf logs an error message using the default logger.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
