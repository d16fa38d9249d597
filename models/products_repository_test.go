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
	"gorm.io/gorm"
)

// --- Helpers ---

type failingHandle struct{ err error }

func (h failingHandle) DB(context.Context) (*gorm.DB, error) { return nil, h.err }

var sizeAttr = testdb.Attribute{
	ID: "Size", Name: "Size", Type: "text",
	Items: [][2]string{{"S", "Small"}, {"M", "Medium"}, {"L", "Large"}},
}

var colorAttr = testdb.Attribute{
	ID: "Color", Name: "Color", Type: "swatch",
	Items: [][2]string{{"Green", "#44FF03"}, {"Black", "#000000"}},
}

func seedCatalog(t *testing.T) *gorm.DB {
	db := testdb.New(t)
	testdb.Seed(t, db, []string{"clothes", "tech"},
		testdb.Fixture{
			Product:    models.Product{ID: "jacket", Name: "Jacket", Brand: "Canada Goose", Category: "clothes", InStock: testdb.Bool(true)},
			Gallery:    []string{"a.jpg", "b.jpg", "c.jpg"},
			Prices:     []string{"518.47:USD:$", "480.00:EUR:€"},
			Attributes: []testdb.Attribute{sizeAttr},
		},
		testdb.Fixture{
			Product:    models.Product{ID: "ps5", Name: "PlayStation 5", Brand: "Sony", Category: "tech", InStock: testdb.Bool(false)},
			Gallery:    []string{"ps5.jpg"},
			Prices:     []string{"844.02:USD:$"},
			Attributes: []testdb.Attribute{colorAttr, sizeAttr},
		},
		testdb.Fixture{
			Product: models.Product{ID: "airtag", Name: "AirTag", Category: "tech"},
		},
		testdb.Fixture{
			Product:    models.Product{ID: "gift-card", Name: "Gift Card", Category: "tech"},
			Attributes: []testdb.Attribute{{ID: "Engraving", Name: "Engraving", Type: "text"}, colorAttr},
		},
	)
	return db
}

// --- Tests ---

func TestGetProductsByCategory(t *testing.T) {
	repo := models.NewProductsRepository(database.Static(seedCatalog(t)))

	testCases := []struct {
		name     string
		category string
		expected []string
	}{
		{name: "All returns every product", category: "all", expected: []string{"jacket", "ps5", "airtag", "gift-card"}},
		{name: "Exact category match", category: "tech", expected: []string{"ps5", "airtag", "gift-card"}},
		{name: "Unknown category is empty", category: "toys", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			products, err := repo.GetProductsByCategory(context.Background(), tc.category)
			require.NoError(t, err)

			var ids []string
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestGetByID(t *testing.T) {
	repo := models.NewProductsRepository(database.Static(seedCatalog(t)))

	product, err := repo.GetByID(context.Background(), "ps5")
	require.NoError(t, err)
	assert.Equal(t, "PlayStation 5", product.Name)
	require.NotNil(t, product.InStock)
	assert.False(t, *product.InStock)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestGetProductGallery(t *testing.T) {
	db := seedCatalog(t)
	require.NoError(t, db.Create(&models.GalleryImage{ProductID: "jacket", ImageURL: "first.jpg", DisplayOrder: -1}).Error)
	repo := models.NewProductsRepository(database.Static(db))

	urls, err := repo.GetProductGallery(context.Background(), "jacket")
	require.NoError(t, err)
	assert.Equal(t, []string{"first.jpg", "a.jpg", "b.jpg", "c.jpg"}, urls)

	urls, err = repo.GetProductGallery(context.Background(), "airtag")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestGetProductPrices(t *testing.T) {
	repo := models.NewProductsRepository(database.Static(seedCatalog(t)))

	prices, err := repo.GetProductPrices(context.Background(), "jacket")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "518.47", prices[0].Amount.StringFixed(2))
	assert.Equal(t, "USD", prices[0].CurrencyLabel)
	assert.Equal(t, "€", prices[1].CurrencySymbol)

	prices, err = repo.GetProductPrices(context.Background(), "airtag")
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestGetProductAttributes(t *testing.T) {
	repo := models.NewProductsRepository(database.Static(seedCatalog(t)))

	testCases := []struct {
		name      string
		productID string
		checkSets func(t *testing.T, sets []models.AttributeSet)
	}{
		{
			name:      "Single set keeps item insertion order",
			productID: "jacket",
			checkSets: func(t *testing.T, sets []models.AttributeSet) {
				require.Len(t, sets, 1)
				assert.Equal(t, "Size", sets[0].Name)
				require.Len(t, sets[0].Items, 3)
				assert.Equal(t, "S", sets[0].Items[0].ID)
				assert.Equal(t, "Large", sets[0].Items[2].Value)
			},
		},
		{
			name:      "Shared set is grouped per product in link order",
			productID: "ps5",
			checkSets: func(t *testing.T, sets []models.AttributeSet) {
				require.Len(t, sets, 2)
				assert.Equal(t, "Color", sets[0].ID)
				assert.Equal(t, "swatch", sets[0].Type)
				assert.Len(t, sets[0].Items, 2)
				assert.Equal(t, "Size", sets[1].ID)
				assert.Len(t, sets[1].Items, 3)
			},
		},
		{
			name:      "Set without items is kept",
			productID: "gift-card",
			checkSets: func(t *testing.T, sets []models.AttributeSet) {
				require.Len(t, sets, 2)
				assert.Equal(t, "Engraving", sets[0].ID)
				assert.NotNil(t, sets[0].Items)
				assert.Empty(t, sets[0].Items)
				assert.Equal(t, "Color", sets[1].ID)
				assert.Len(t, sets[1].Items, 2)
			},
		},
		{
			name:      "No attributes",
			productID: "airtag",
			checkSets: func(t *testing.T, sets []models.AttributeSet) {
				assert.Empty(t, sets)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sets, err := repo.GetProductAttributes(context.Background(), tc.productID)
			require.NoError(t, err)
			tc.checkSets(t, sets)
		})
	}
}

func TestProductsRepositoryPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("db down")
	repo := models.NewProductsRepository(failingHandle{err: storeErr})
	ctx := context.Background()

	_, err := repo.GetProductsByCategory(ctx, "all")
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.GetByID(ctx, "jacket")
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.GetProductGallery(ctx, "jacket")
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.GetProductPrices(ctx, "jacket")
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.GetProductAttributes(ctx, "jacket")
	assert.ErrorIs(t, err, storeErr)
}
