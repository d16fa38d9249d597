package models

import (
	"context"
	"errors"

	"github.com/storefront-labs/catalog/database"
	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db database.Handle
}

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

func NewCategoriesRepository(db database.Handle) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByName resolves AllCategory without touching the store.
func (r *CategoriesRepository) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	if name == AllCategory {
		return &Category{Name: AllCategory}, nil
	}

	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var category Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}
