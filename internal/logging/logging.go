package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
	ModeOff  = "off"
)

// New builds a zap logger for the given mode. "off" (or "") returns a no-op logger,
// which is what the TUI uses by default so log lines don't corrupt the screen.
func New(mode string, outputPath string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeOff:
		return zap.NewNop(), nil
	case ModeProd, "production":
		cfg = zap.NewProductionConfig()
	case ModeDev, "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		return nil, fmt.Errorf("unknown log mode %q (want dev, prod or off)", mode)
	}

	if outputPath != "" {
		cfg.OutputPaths = []string{outputPath}
		cfg.ErrorOutputPaths = []string{outputPath}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
