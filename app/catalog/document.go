package catalog

// Category is the client-facing category document.
type Category struct {
	Name string `json:"name"`
}

type Currency struct {
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

type Price struct {
	Amount   float64  `json:"amount"`
	Currency Currency `json:"currency"`
}

type AttributeItem struct {
	ID           string `json:"id"`
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

type AttributeSet struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Items []AttributeItem `json:"items"`
}

// Product is the client-facing product document. Every field is always set.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	InStock     bool           `json:"inStock"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Gallery     []string       `json:"gallery"`
	Prices      []Price        `json:"prices"`
	Attributes  []AttributeSet `json:"attributes"`
}
