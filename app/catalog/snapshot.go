package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/storefront-labs/catalog/models"
)

// Snapshot is the static catalog document used for seeding and as the
// last-resort data source. Fields not listed here, such as __typename, are
// ignored on decode.
type Snapshot struct {
	Data SnapshotData `json:"data"`
}

type SnapshotData struct {
	Categories []SnapshotCategory `json:"categories"`
	Products   []SnapshotProduct  `json:"products"`
}

type SnapshotCategory struct {
	Name string `json:"name"`
}

type SnapshotProduct struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	InStock     *bool               `json:"inStock"`
	Category    string              `json:"category"`
	Brand       string              `json:"brand"`
	Gallery     []string            `json:"gallery"`
	Prices      []SnapshotPrice     `json:"prices"`
	Attributes  []SnapshotAttribute `json:"attributes"`
}

type SnapshotPrice struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

type SnapshotAttribute struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Items []AttributeItem `json:"items"`
}

// ParseSnapshot decodes a snapshot document.
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// Rows splits a snapshot product into the same row shapes the store holds,
// so both sources go through one Assemble.
func (p SnapshotProduct) Rows() (models.Product, Related) {
	row := models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		InStock:     p.InStock,
		Category:    p.Category,
		Brand:       p.Brand,
	}

	rel := Related{Gallery: p.Gallery}
	for _, price := range p.Prices {
		rel.Prices = append(rel.Prices, models.Price{
			ProductID:      p.ID,
			Amount:         price.Amount,
			CurrencyLabel:  price.Currency.Label,
			CurrencySymbol: price.Currency.Symbol,
		})
	}
	for _, attr := range p.Attributes {
		set := models.AttributeSet{ID: attr.ID, Name: attr.Name, Type: attr.Type}
		for i, item := range attr.Items {
			set.Items = append(set.Items, models.AttributeItem{
				ID:           item.ID,
				AttributeID:  attr.ID,
				DisplayValue: item.DisplayValue,
				Value:        item.Value,
				Position:     i,
			})
		}
		rel.Attributes = append(rel.Attributes, set)
	}
	return row, rel
}
