package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the catalog schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Product{},
		&GalleryImage{},
		&Price{},
		&AttributeSet{},
		&AttributeItem{},
		&ProductAttribute{},
		&Order{},
		&OrderItem{},
	)
}
