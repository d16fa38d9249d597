package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a raw product row. Any column may be empty on a partially
// seeded row; callers are expected to apply defaults.
type Product struct {
	ID          string `gorm:"primaryKey;size:255"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	InStock     *bool
	Category    string         `gorm:"size:255;index"`
	Brand       string         `gorm:"size:255"`
	Gallery     []GalleryImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Prices      []Price        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

// GalleryImage is one image of a product gallery.
type GalleryImage struct {
	ID           uint   `gorm:"primaryKey"`
	ProductID    string `gorm:"size:255;not null;index"`
	ImageURL     string `gorm:"type:text;not null"`
	DisplayOrder int    `gorm:"not null;default:0"`
}

func (g *GalleryImage) TableName() string {
	return "product_gallery"
}

// Price is one currency price of a product.
type Price struct {
	ID             uint            `gorm:"primaryKey"`
	ProductID      string          `gorm:"size:255;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrencyLabel  string          `gorm:"size:10;not null"`
	CurrencySymbol string          `gorm:"size:5;not null"`
}

func (p *Price) TableName() string {
	return "product_prices"
}

// AttributeSet is a named, typed group of options (e.g. Size) that can be
// shared by several products.
type AttributeSet struct {
	ID    string          `gorm:"primaryKey;size:255"`
	Name  string          `gorm:"size:255;not null"`
	Type  string          `gorm:"size:50;not null"`
	Items []AttributeItem `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE"`
}

func (a *AttributeSet) TableName() string {
	return "attribute_sets"
}

// AttributeItem is one selectable option. Its id is only unique within its
// attribute set.
type AttributeItem struct {
	ID           string `gorm:"primaryKey;size:255"`
	AttributeID  string `gorm:"primaryKey;size:255"`
	DisplayValue string `gorm:"size:255;not null"`
	Value        string `gorm:"size:255;not null"`
	Position     int    `gorm:"not null;default:0"`
}

func (a *AttributeItem) TableName() string {
	return "attribute_items"
}

// ProductAttribute links a product to a shared attribute set.
type ProductAttribute struct {
	ProductID   string `gorm:"primaryKey;size:255"`
	AttributeID string `gorm:"primaryKey;size:255"`
	Position    int    `gorm:"not null;default:0"`
}

func (p *ProductAttribute) TableName() string {
	return "product_attributes"
}
