package database

import (
	"context"

	"github.com/storefront-labs/catalog/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("database",
	fx.Provide(provideConn, provideHandle),
)

func provideConn(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *Conn {
	conn := OpenLazy(cfg.Database, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})
	return conn
}

func provideHandle(c *Conn) Handle {
	return c
}
