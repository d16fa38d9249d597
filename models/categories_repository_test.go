package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-labs/catalog/database"
	"github.com/storefront-labs/catalog/internal/testdb"
	"github.com/storefront-labs/catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllCategories(t *testing.T) {
	db := testdb.New(t)
	testdb.Seed(t, db, []string{"tech", "clothes"})
	repo := models.NewCategoriesRepository(database.Static(db))

	categories, err := repo.GetAllCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "clothes", categories[0].Name)
	assert.Equal(t, "tech", categories[1].Name)
}

func TestGetCategoryByName(t *testing.T) {
	db := testdb.New(t)
	testdb.Seed(t, db, []string{"clothes"})

	testCases := []struct {
		name      string
		category  string
		repo      *models.CategoriesRepository
		expectErr error
	}{
		{name: "Stored category", category: "clothes", repo: models.NewCategoriesRepository(database.Static(db))},
		{name: "Missing category", category: "toys", repo: models.NewCategoriesRepository(database.Static(db)), expectErr: models.ErrCategoryNotFound},
		{name: "All resolves without the store", category: "all", repo: models.NewCategoriesRepository(failingHandle{err: errors.New("db down")})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			category, err := tc.repo.GetCategoryByName(context.Background(), tc.category)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, category)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.category, category.Name)
		})
	}
}
