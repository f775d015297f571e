/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is a Logger backed by a zap sugared logger. Notice maps onto zap's info level and
// Trace onto zap's debug level, filtered by LogLevel.
type ZapLogger struct {
	LogLevel LogLevel
	sugar    *zap.SugaredLogger
}

// NewZapLogger creates a logger that writes structured (JSON) entries, or human readable
// console entries when `development` is set.
func NewZapLogger(logLevel LogLevel, development bool) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(logLevel))
	cfg.DisableStacktrace = true

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return WrapZap(logger, logLevel), nil
}

// WrapZap wraps an existing zap logger.
func WrapZap(logger *zap.Logger, logLevel LogLevel) *ZapLogger {
	return &ZapLogger{
		LogLevel: logLevel,
		sugar:    logger.Sugar(),
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch {
	case level >= LogLevelDebug:
		return zapcore.DebugLevel
	case level >= LogLevelInfo:
		return zapcore.InfoLevel
	case level >= LogLevelNotice:
		return zapcore.InfoLevel
	case level >= LogLevelWarning:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

// IsLogLevel returns true if log level is greater or equal than `level`.
func (l *ZapLogger) IsLogLevel(level LogLevel) bool {
	return l.LogLevel >= level
}

// Error logs error message.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelError {
		l.sugar.Errorf(format, args...)
	}
}

// Warning logs warning message.
func (l *ZapLogger) Warning(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelWarning {
		l.sugar.Warnf(format, args...)
	}
}

// Notice logs notice message.
func (l *ZapLogger) Notice(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelNotice {
		l.sugar.Infof(format, args...)
	}
}

// Info logs info message.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelInfo {
		l.sugar.Infof(format, args...)
	}
}

// Debug logs debug message.
func (l *ZapLogger) Debug(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelDebug {
		l.sugar.Debugf(format, args...)
	}
}

// Trace logs trace message.
func (l *ZapLogger) Trace(format string, args ...interface{}) {
	if l.LogLevel >= LogLevelTrace {
		l.sugar.Debugf(format, args...)
	}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
