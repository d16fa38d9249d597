package categories

import (
	"github.com/storefront-labs/catalog/app/catalog"
	"go.uber.org/fx"
)

var Module = fx.Module("categories",
	fx.Provide(provideHandler),
)

func provideHandler(s *catalog.Service) *CategoryHandler {
	return NewCategoryHandler(s)
}
