package logging

import (
    "fmt"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "fxconvert/internal/config"
)

func build(cfg config.Log) (*zap.Logger, error) {
    level := zapcore.InfoLevel
    if cfg.Level != "" {
        if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
            return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
        }
    }
    output := cfg.Output
    if output == "" {
        output = "stderr"
    }

    zapCfg := zap.NewProductionConfig()
    zapCfg.Level = zap.NewAtomicLevelAt(level)
    zapCfg.EncoderConfig.CallerKey = "ln"
    zapCfg.EncoderConfig.FunctionKey = ""
    zapCfg.EncoderConfig.LevelKey = "severity"
    zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
    zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    zapCfg.OutputPaths = []string{output}
    zapCfg.ErrorOutputPaths = []string{"stderr"}

    return zapCfg.Build()
}

// New builds the process logger and installs it as the zap global.
// The returned func restores the previous global and flushes.
func New(cfg config.Log) (*zap.Logger, func(), error) {
    logger, err := build(cfg)
    if err != nil {
        return nil, nil, err
    }

    undo := zap.ReplaceGlobals(logger)

    return logger, func() {
        undo()
        _ = logger.Sync()
    }, nil
}
