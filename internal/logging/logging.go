// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application logger. Because the terminal is
// owned by the chat shell, logs go to a rotating file under the data
// directory, never to stdout or stderr.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file name inside the data directory.
const DefaultFileName = "magchat.log"

// New creates a file-backed JSON logger with rotation. The parent
// directory is created if missing. Pass debug=true to lower the level
// to Debug.
func New(logFilePath string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)

	return zap.New(core), nil
}

// Nop returns a logger that discards everything. Used when the log file
// cannot be opened; the application keeps working without logs.
func Nop() *zap.Logger {
	return zap.NewNop()
}
