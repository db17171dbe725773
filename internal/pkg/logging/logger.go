// Package logging builds the process-wide zap logger. Components never
// construct loggers themselves; main builds one here and hands it down.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// SystemTraceID and SystemSpanID mark log entries written outside any
	// request, such as startup and shutdown.
	SystemTraceID = "system"
	SystemSpanID  = "system"
)

// NewLogger builds a JSON logger writing to stdout, tagged with the service
// name and environment. In the development environment the encoder switches
// to console output with colored levels. CATALOG_LOG_FILE, when set, adds a
// second output path for local debugging.
func NewLogger(service, env, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logging: parse level %q: %w", level, err)
		}
		lvl = parsed
	}

	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	if extra := os.Getenv("CATALOG_LOG_FILE"); extra != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, extra)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, extra)
	}
	cfg.InitialFields = map[string]any{
		"service": service,
		"env":     env,
	}

	return cfg.Build()
}

// MustNewLogger panics when the logger cannot be built. Intended for main,
// where there is nothing sensible to do without a logger.
func MustNewLogger(service, env, level string) *zap.Logger {
	logger, err := NewLogger(service, env, level)
	if err != nil {
		panic(err)
	}
	return logger
}

// WithTrace attaches trace correlation identifiers, normalising blanks so
// the fields are always present and queryable.
func WithTrace(logger *zap.Logger, traceID, spanID string) *zap.Logger {
	if logger == nil {
		logger = zap.L()
	}
	if traceID == "" {
		traceID = "unknown"
	}
	if spanID == "" {
		spanID = "unknown"
	}
	return logger.With(
		zap.String("trace_id", traceID),
		zap.String("span_id", spanID),
	)
}
