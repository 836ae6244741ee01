// Package logger provides leveled structured logging.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultLogger writes console output at info level until Init is called.
var defaultLogger = New("info", "text", zapcore.Lock(os.Stderr)).Sugar()

// Init initializes the default logger with the specified level and format.
// Unknown levels fall back to info; format "text" selects the console encoder.
func Init(level string, format string) {
	defaultLogger = New(level, format, zapcore.Lock(os.Stderr)).Sugar()
}

// New builds a logger writing to ws.
func New(level string, format string, ws zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.ToLower(format) == "text" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, ws, parseLevel(level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Set replaces the default logger. Used by tests to capture output.
func Set(l *zap.Logger) {
	defaultLogger = l.Sugar()
}

// Sync flushes buffered entries.
func Sync() {
	_ = defaultLogger.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// Fatal logs the message and exits with status 1.
func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatalf(format, args...)
}
