package models

import (
	"context"
	"errors"

	"github.com/storefront-labs/catalog/database"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db database.Handle
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db database.Handle) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// WithTx returns a repository bound to the given transaction.
func (r *ProductsRepository) WithTx(tx *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: database.Static(tx)}
}

// GetProductsByCategory returns every product row for AllCategory, otherwise
// the rows whose category matches exactly.
func (r *ProductsRepository) GetProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&Product{})
	if category != AllCategory {
		query = query.Where("category = ?", category)
	}

	var products []Product
	if err := query.Order("created_at, id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// GetProductGallery returns image URLs in display order.
func (r *ProductsRepository) GetProductGallery(ctx context.Context, productID string) ([]string, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := db.Model(&GalleryImage{}).
		Where("product_id = ?", productID).
		Order("display_order, id").
		Pluck("image_url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

// GetProductPrices returns every stored price of a product. The order carries
// no meaning beyond insertion.
func (r *ProductsRepository) GetProductPrices(ctx context.Context, productID string) ([]Price, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var prices []Price
	if err := db.Where("product_id = ?", productID).Order("id").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// attributeRow is one row of the attribute join. The item columns are nil for
// a linked set that has no items.
type attributeRow struct {
	ID           string
	Name         string
	Type         string
	ItemID       *string
	DisplayValue *string
	Value        *string
}

// GetProductAttributes joins product_attributes, attribute_sets and
// attribute_items and folds the flat rows back into nested sets. Linked sets
// without items are kept with an empty item list.
func (r *ProductsRepository) GetProductAttributes(ctx context.Context, productID string) ([]AttributeSet, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}

	var rows []attributeRow
	if err := db.Raw(`
		SELECT a.id, a.name, a.type, ai.id AS item_id, ai.display_value, ai.value
		FROM product_attributes pa
		JOIN attribute_sets a ON pa.attribute_id = a.id
		LEFT JOIN attribute_items ai ON ai.attribute_id = a.id
		WHERE pa.product_id = ?
		ORDER BY pa.position, a.id, ai.position, ai.id`,
		productID,
	).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return groupAttributeRows(rows), nil
}

func groupAttributeRows(rows []attributeRow) []AttributeSet {
	sets := []AttributeSet{}
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			i = len(sets)
			index[row.ID] = i
			sets = append(sets, AttributeSet{ID: row.ID, Name: row.Name, Type: row.Type, Items: []AttributeItem{}})
		}
		if row.ItemID == nil {
			continue
		}
		sets[i].Items = append(sets[i].Items, AttributeItem{
			ID:           *row.ItemID,
			AttributeID:  row.ID,
			DisplayValue: deref(row.DisplayValue),
			Value:        deref(row.Value),
		})
	}
	return sets
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
