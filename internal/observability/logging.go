// Package observability builds the process logger and names the log fields
// shared by the engine and the frontends.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/whatif/internal/config"
)

// Log field keys.
const (
	FieldSession  = "session"
	FieldVariant  = "variant"
	FieldLocation = "location"
	FieldVerb     = "verb"
)

// NewLogger builds a zap logger from cfg. JSON output uses the production
// encoder, console output the development one. Stack traces are attached
// to errors only at debug level.
//
// Precondition: cfg has passed config validation.
// Postcondition: Returns a logger writing to cfg.Output (stderr when empty),
// or an error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	case "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = level > zapcore.DebugLevel
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if out := cfg.Output; out != "" {
		zc.OutputPaths = []string{out}
		zc.ErrorOutputPaths = []string{out}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// SessionLogger returns logger annotated with the session key and game variant.
func SessionLogger(logger *zap.Logger, sessionKey, variant string) *zap.Logger {
	return logger.With(zap.String(FieldSession, sessionKey), zap.String(FieldVariant, variant))
}

// TurnLogger returns logger annotated for one command.
func TurnLogger(logger *zap.Logger, variant, location, verb string) *zap.Logger {
	return logger.With(
		zap.String(FieldVariant, variant),
		zap.String(FieldLocation, location),
		zap.String(FieldVerb, verb),
	)
}
