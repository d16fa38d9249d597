// Package seed imports a catalog snapshot into the relational store.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stats counts what an import wrote.
type Stats struct {
	Categories int
	Products   int
	Skipped    int
}

// Import writes every category and product of snap in one transaction.
// Products are upserted; their gallery, prices and attribute links are
// replaced. Shared attribute sets and items are only inserted once.
func Import(ctx context.Context, db *gorm.DB, snap *catalog.Snapshot, log *zap.Logger) (Stats, error) {
	var stats Stats
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range snap.Data.Categories {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Category{Name: name}).Error; err != nil {
				return fmt.Errorf("insert category %q: %w", name, err)
			}
			stats.Categories++
		}

		for _, sp := range snap.Data.Products {
			if strings.TrimSpace(sp.ID) == "" {
				log.Warn("skipping snapshot product with missing id", zap.String("name", sp.Name))
				stats.Skipped++
				continue
			}
			if err := importProduct(tx, sp); err != nil {
				return fmt.Errorf("import product %q: %w", sp.ID, err)
			}
			stats.Products++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func importProduct(tx *gorm.DB, sp catalog.SnapshotProduct) error {
	row, rel := sp.Rows()
	if row.InStock == nil {
		inStock := true
		row.InStock = &inStock
	}

	if err := tx.Omit("Gallery", "Prices").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "in_stock", "category", "brand", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return err
	}

	for _, table := range []any{&models.GalleryImage{}, &models.Price{}, &models.ProductAttribute{}} {
		if err := tx.Where("product_id = ?", row.ID).Delete(table).Error; err != nil {
			return err
		}
	}

	for i, url := range rel.Gallery {
		if err := tx.Create(&models.GalleryImage{ProductID: row.ID, ImageURL: url, DisplayOrder: i}).Error; err != nil {
			return err
		}
	}
	for i := range rel.Prices {
		if err := tx.Create(&rel.Prices[i]).Error; err != nil {
			return err
		}
	}
	for i, set := range rel.Attributes {
		items := set.Items
		set.Items = nil
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&set).Error; err != nil {
			return err
		}
		for j := range items {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&items[j]).Error; err != nil {
				return err
			}
		}
		link := models.ProductAttribute{ProductID: row.ID, AttributeID: set.ID, Position: i}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
