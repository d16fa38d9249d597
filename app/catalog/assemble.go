package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront-labs/catalog/models"
	"go.uber.org/zap"
)

const (
	DefaultName      = "Untitled Product"
	DefaultBrand     = "Unknown Brand"
	DefaultAttrName  = "Unnamed Attribute"
	DefaultAttrType  = "text"
	DefaultCurrency  = "USD"
	DefaultSymbol    = "$"
	PlaceholderImage = "https://via.placeholder.com/300x300?text=No+Image"
)

// Related holds the rows a product owns or links to.
type Related struct {
	Gallery    []string
	Prices     []models.Price
	Attributes []models.AttributeSet
}

// RelatedReader reads the rows that belong to a product.
type RelatedReader interface {
	GetProductGallery(ctx context.Context, productID string) ([]string, error)
	GetProductPrices(ctx context.Context, productID string) ([]models.Price, error)
	GetProductAttributes(ctx context.Context, productID string) ([]models.AttributeSet, error)
}

// LoadRelated reads gallery, prices and attributes independently. A failed
// read is logged and leaves that part empty so Assemble falls back to its
// default.
func LoadRelated(ctx context.Context, r RelatedReader, productID string, log *zap.Logger) Related {
	var rel Related
	var err error

	if rel.Gallery, err = r.GetProductGallery(ctx, productID); err != nil {
		log.Warn("fetch gallery failed", zap.String("product_id", productID), zap.Error(err))
	}
	if rel.Prices, err = r.GetProductPrices(ctx, productID); err != nil {
		log.Warn("fetch prices failed", zap.String("product_id", productID), zap.Error(err))
	}
	if rel.Attributes, err = r.GetProductAttributes(ctx, productID); err != nil {
		log.Warn("fetch attributes failed", zap.String("product_id", productID), zap.Error(err))
	}
	return rel
}

var textDefaults = []struct {
	field    func(*Product) *string
	fallback string
}{
	{func(p *Product) *string { return &p.Name }, DefaultName},
	{func(p *Product) *string { return &p.Brand }, DefaultBrand},
	{func(p *Product) *string { return &p.Description }, ""},
	{func(p *Product) *string { return &p.Category }, models.AllCategory},
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

// Assemble turns a raw product row and its related rows into a complete
// Product document. Blank values take their defaults; it never fails.
func Assemble(raw models.Product, rel Related) Product {
	doc := Product{
		ID:          strings.TrimSpace(raw.ID),
		Name:        raw.Name,
		Brand:       raw.Brand,
		InStock:     true,
		Description: raw.Description,
		Category:    raw.Category,
	}
	if raw.InStock != nil {
		doc.InStock = *raw.InStock
	}
	for _, d := range textDefaults {
		v := d.field(&doc)
		if *v = strings.TrimSpace(*v); *v == "" {
			*v = d.fallback
		}
	}
	if doc.ID == "" {
		doc.ID = newID("product-")
	}

	doc.Gallery = assembleGallery(rel.Gallery)
	doc.Prices = assemblePrices(rel.Prices)
	doc.Attributes = assembleAttributes(rel.Attributes)
	return doc
}

func assembleGallery(urls []string) []string {
	gallery := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			gallery = append(gallery, u)
		}
	}
	if len(gallery) == 0 {
		return []string{PlaceholderImage}
	}
	return gallery
}

func assemblePrices(rows []models.Price) []Price {
	if len(rows) == 0 {
		return []Price{{Amount: 0, Currency: Currency{Label: DefaultCurrency, Symbol: DefaultSymbol}}}
	}

	prices := make([]Price, len(rows))
	for i, row := range rows {
		prices[i] = Price{
			Amount: row.Amount.InexactFloat64(),
			Currency: Currency{
				Label:  orDefault(row.CurrencyLabel, DefaultCurrency),
				Symbol: orDefault(row.CurrencySymbol, DefaultSymbol),
			},
		}
	}
	return prices
}

func assembleAttributes(sets []models.AttributeSet) []AttributeSet {
	attributes := make([]AttributeSet, len(sets))
	for i, set := range sets {
		items := make([]AttributeItem, len(set.Items))
		for j, item := range set.Items {
			value := strings.TrimSpace(item.Value)
			items[j] = AttributeItem{
				ID:           orNewID(item.ID),
				DisplayValue: orDefault(item.DisplayValue, value),
				Value:        value,
			}
		}
		attributes[i] = AttributeSet{
			ID:    orNewID(set.ID),
			Name:  orDefault(set.Name, DefaultAttrName),
			Type:  orDefault(set.Type, DefaultAttrType),
			Items: items,
		}
	}
	return attributes
}

func orNewID(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return newID("attr-")
	}
	return v
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
