package graphql

import (
	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/app/orders"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("graphql",
	fx.Provide(provideExecutor, NewHandler),
)

func provideExecutor(c *catalog.Service, o *orders.Service, log *zap.Logger) *Executor {
	return NewExecutor(c, o, log)
}
