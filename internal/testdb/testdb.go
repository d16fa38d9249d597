// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/storefront-labs/catalog/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New returns a fresh database private to the running test.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Attribute describes an attribute set linked to a product.
type Attribute struct {
	ID, Name, Type string
	Items          [][2]string // {id, value}; display value equals value
}

// Fixture describes one product and its related rows.
type Fixture struct {
	Product    models.Product
	Gallery    []string
	Prices     []string // amount:LABEL:symbol
	Attributes []Attribute
}

// Seed inserts the fixtures in order.
func Seed(t *testing.T, db *gorm.DB, categories []string, fixtures ...Fixture) {
	t.Helper()

	for _, name := range categories {
		must(t, db.Create(&models.Category{Name: name}).Error)
	}
	for _, f := range fixtures {
		p := f.Product
		must(t, db.Create(&p).Error)
		for i, url := range f.Gallery {
			must(t, db.Create(&models.GalleryImage{ProductID: p.ID, ImageURL: url, DisplayOrder: i}).Error)
		}
		for _, raw := range f.Prices {
			parts := strings.SplitN(raw, ":", 3)
			must(t, db.Create(&models.Price{
				ProductID:      p.ID,
				Amount:         decimal.RequireFromString(parts[0]),
				CurrencyLabel:  parts[1],
				CurrencySymbol: parts[2],
			}).Error)
		}
		for i, a := range f.Attributes {
			must(t, db.Where(models.AttributeSet{ID: a.ID}).
				FirstOrCreate(&models.AttributeSet{ID: a.ID, Name: a.Name, Type: a.Type}).Error)
			for j, item := range a.Items {
				must(t, db.Where(models.AttributeItem{ID: item[0], AttributeID: a.ID}).
					FirstOrCreate(&models.AttributeItem{
						ID:           item[0],
						AttributeID:  a.ID,
						DisplayValue: item[1],
						Value:        item[1],
						Position:     j,
					}).Error)
			}
			must(t, db.Create(&models.ProductAttribute{ProductID: p.ID, AttributeID: a.ID, Position: i}).Error)
		}
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}
