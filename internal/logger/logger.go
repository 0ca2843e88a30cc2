package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "bookstore-be"

var log *zap.Logger

// New builds a logger for env. "production" gets JSON on stdout, anything
// else a colored development console. A non-empty level such as "warn"
// overrides the environment default.
func New(env, level string) (*zap.Logger, error) {
	cfg := developmentConfig()
	if env == "production" {
		cfg = productionConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	built, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return built.With(zap.String("service", serviceName)), nil
}

// Init replaces the global logger. An unparsable level is reported and the
// environment default is used instead.
func Init(env, level string) {
	built, err := New(env, level)
	if err != nil {
		var fallbackErr error
		if built, fallbackErr = New(env, ""); fallbackErr != nil {
			panic(fallbackErr)
		}
		built.Warn("falling back to default log level", zap.Error(err))
	}
	log = built
}

// L returns the global logger, initializing it from APP_ENV and LOG_LEVEL
// on first use.
func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	}
	return log
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

func productionConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func developmentConfig() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}
