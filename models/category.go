package models

import "time"

// AllCategory is the pseudo-category that matches every product. It never
// needs to be stored.
const AllCategory = "all"

// Category represents a product category. The name is its natural key.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) TableName() string {
	return "categories"
}
