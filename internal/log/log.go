package log

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger builds the default stderr console logger once.
func initLogger() *zap.SugaredLogger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg := zap.Config{
			Level:            level,
			Encoding:         "console",
			EncoderConfig:    encCfg,
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}
		z, err := cfg.Build()
		if err != nil {
			z = zap.NewNop()
		}
		logger = z.Sugar()
	}
	return logger
}

// Use replaces the underlying logger. Tests pass an observer-backed logger.
func Use(z *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = z.Sugar()
}

// Sync flushes buffered entries.
func Sync() {
	_ = initLogger().Sync()
}

func SetLevel(l Level) {
	level.SetLevel(toZap(l))
}

// ParseLevel maps a config string onto a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZap(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, kv ...any) {
	initLogger().Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger().Infow(msg, kv...)
}

func Warn(msg string, kv ...any) {
	initLogger().Warnw(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	initLogger().Errorw(msg, extended...)
}
