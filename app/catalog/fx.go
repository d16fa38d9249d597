package catalog

import (
	"github.com/storefront-labs/catalog/config"
	"github.com/storefront-labs/catalog/metrics"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog",
	fx.Provide(
		provideSource,
		provideService,
		provideHandler,
	),
)

func provideSource(cfg config.Config, repo *models.ProductsRepository, log *zap.Logger, m *metrics.Metrics) ProductSource {
	return NewFallbackSource(
		NewLiveStore(repo, log, m),
		NewSnapshotFile(cfg.SnapshotPath, log, m),
		log,
		m,
	)
}

func provideService(categories *models.CategoriesRepository, products ProductSource, log *zap.Logger) *Service {
	return NewService(categories, products, log)
}

func provideHandler(s *Service) *CatalogHandler {
	return NewCatalogHandler(s)
}
