package models

import (
	"context"

	"github.com/storefront-labs/catalog/database"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("models",
	fx.Provide(
		NewCategoriesRepository,
		NewProductsRepository,
		NewOrdersRepository,
	),
	fx.Invoke(registerMigration),
)

// registerMigration migrates the schema on start. An unreachable database is
// not fatal: reads fall back to the snapshot until it comes back.
func registerMigration(lc fx.Lifecycle, db database.Handle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			gdb, err := db.DB(ctx)
			if err != nil {
				log.Warn("skipping schema migration, database unavailable", zap.Error(err))
				return nil
			}
			return AutoMigrate(gdb)
		},
	})
}
