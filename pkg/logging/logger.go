package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Zap *zap.Logger
}

func New(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{Zap: zapLogger}, nil
}

// Nop discards everything; used by tests and by components built without a logger.
func Nop() *Logger {
	return &Logger{Zap: zap.NewNop()}
}

// Named returns a child logger tagged the way every component tags its records.
func (l *Logger) Named(component string) *zap.Logger {
	if l == nil || l.Zap == nil {
		return zap.NewNop()
	}
	return l.Zap.With(zap.String("logger", component))
}
