package main

import (
	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/app/categories"
	"github.com/storefront-labs/catalog/app/graphql"
	"github.com/storefront-labs/catalog/app/orders"
	"github.com/storefront-labs/catalog/config"
	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/internal/server"
	"github.com/storefront-labs/catalog/logging"
	"github.com/storefront-labs/catalog/metrics"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Infrastructure
		config.Module,
		logging.Module,
		metrics.Module,
		database.Module,
		models.Module,

		// Domains
		catalog.Module,
		categories.Module,
		orders.Module,
		graphql.Module,

		server.Module,
		fx.WithLogger(logging.FxLogger),
	)
	app.Run()
}
