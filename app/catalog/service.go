package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront-labs/catalog/models"
	"go.uber.org/zap"
)

// DefaultCategories is served when the category list cannot be read.
var DefaultCategories = []Category{{Name: models.AllCategory}, {Name: "clothes"}, {Name: "tech"}}

// CategoryReader is the category row access the service needs.
type CategoryReader interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
}

// Service mediates between the request dispatcher and the stores. Its read
// operations never fail: they degrade to defaults or empty results.
type Service struct {
	categories CategoryReader
	products   ProductSource
	log        *zap.Logger
}

func NewService(categories CategoryReader, products ProductSource, log *zap.Logger) *Service {
	return &Service{
		categories: categories,
		products:   products,
		log:        log.Named("catalog.service"),
	}
}

// ListCategories returns every stored category with "all" first if it is not
// stored.
func (s *Service) ListCategories(ctx context.Context) []Category {
	rows, err := s.categories.GetAllCategories(ctx)
	if err != nil {
		s.log.Error("list categories failed, serving defaults", zap.Error(err))
		return append([]Category(nil), DefaultCategories...)
	}

	categories := make([]Category, 0, len(rows)+1)
	hasAll := false
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		hasAll = hasAll || name == models.AllCategory
		categories = append(categories, Category{Name: name})
	}
	if !hasAll {
		categories = append([]Category{{Name: models.AllCategory}}, categories...)
	}
	return categories
}

// GetCategory returns models.ErrCategoryNotFound when the category does not
// exist or cannot be read.
func (s *Service) GetCategory(ctx context.Context, name string) (*Category, error) {
	row, err := s.categories.GetCategoryByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if !errors.Is(err, models.ErrCategoryNotFound) {
			s.log.Error("get category failed", zap.String("category", name), zap.Error(err))
		}
		return nil, models.ErrCategoryNotFound
	}
	return &Category{Name: row.Name}, nil
}

// ListProducts returns the products of a category; an empty category means
// all of them.
func (s *Service) ListProducts(ctx context.Context, category string) []Product {
	category = strings.TrimSpace(category)
	if category == "" {
		category = models.AllCategory
	}

	products, err := s.products.Products(ctx, category)
	if err != nil {
		s.log.Error("list products failed", zap.String("category", category), zap.Error(err))
		return []Product{}
	}
	if len(products) == 0 {
		s.log.Info("no products found", zap.String("category", category))
	}
	return products
}

// GetProduct returns models.ErrProductNotFound when the product does not exist
// or cannot be read.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	product, err := s.products.Product(ctx, strings.TrimSpace(id))
	if err != nil {
		if !errors.Is(err, models.ErrProductNotFound) {
			s.log.Error("get product failed", zap.String("product_id", id), zap.Error(err))
		}
		return nil, models.ErrProductNotFound
	}
	return product, nil
}
