// Package logger provides the structured logging facility shared by every
// clipcore component. It is built once at process start and threaded
// through explicitly into each component constructor — no package-level
// singleton, no environment-variable lookups buried inside the package.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface every component depends on.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	WithFields(fields map[string]interface{}) Logger
}

type zapLogger struct {
	*zap.SugaredLogger
}

func (l *zapLogger) Debug(msg string, fields ...interface{}) {
	l.SugaredLogger.Debugw(msg, fields...)
}

func (l *zapLogger) Info(msg string, fields ...interface{}) {
	l.SugaredLogger.Infow(msg, fields...)
}

func (l *zapLogger) Warn(msg string, fields ...interface{}) {
	l.SugaredLogger.Warnw(msg, fields...)
}

func (l *zapLogger) Error(msg string, fields ...interface{}) {
	l.SugaredLogger.Errorw(msg, fields...)
}

func (l *zapLogger) WithFields(fields map[string]interface{}) Logger {
	zapFields := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		zapFields = append(zapFields, k, v)
	}
	return &zapLogger{SugaredLogger: l.SugaredLogger.With(zapFields...)}
}

// New builds a production-style JSON logger at the given level
// ("debug", "info", "warn", "error"). An unrecognized level falls back
// to info rather than failing startup.
func New(level string) Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := config.Build()
	if err != nil {
		panic(err)
	}

	return &zapLogger{SugaredLogger: built.Sugar()}
}

// NewDevelopment builds a human-readable console logger at debug level.
// The CLI does not use it; it always builds its logger with New.
func NewDevelopment() Logger {
	built, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return &zapLogger{SugaredLogger: built.Sugar()}
}
