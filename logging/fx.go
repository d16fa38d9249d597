package logging

import (
	"github.com/storefront-labs/catalog/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var Module = fx.Module("logging",
	fx.Provide(provideLogger),
)

func provideLogger(cfg config.Config) (*zap.Logger, error) {
	return New(Options{
		Service:     "storefront",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
}

// FxLogger routes fx's own lifecycle events through zap.
func FxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}
