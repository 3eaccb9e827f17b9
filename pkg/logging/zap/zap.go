package zap

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv names the environment variable holding the default log level.
const LevelEnv = "REMOTE_UCI_LOG"

// Level resolves the log level: an explicit value first, then LevelEnv, then info.
func Level(explicit string) (zapcore.Level, error) {
	name := explicit
	if name == "" {
		name = os.Getenv(LevelEnv)
	}
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// NewLogger builds a console logger on stderr at the given level, without
// caller or stack annotations.
func NewLogger(level zapcore.Level) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
