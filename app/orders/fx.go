package orders

import "go.uber.org/fx"

var Module = fx.Module("orders",
	fx.Provide(NewService),
)
