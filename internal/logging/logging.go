package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON production logger at the given level. An empty level means info.
// Output goes to stderr unless paths are given.
func New(level string, paths ...string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if len(paths) > 0 {
		cfg.OutputPaths = paths
		cfg.ErrorOutputPaths = paths
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}

	return logger, nil
}
