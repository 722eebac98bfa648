package logger_fx

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"lucidly/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.Invoke(registerSync),
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// NewLogger builds a production logger, JSON unless format is "console".
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "console") {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func registerSync(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}
