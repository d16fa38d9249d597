package orders

import (
	"encoding/json"
	"time"
)

// AttributeSelection is one attribute choice the client made for a line.
type AttributeSelection struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type LineInput struct {
	ProductID  string               `json:"productId"`
	Quantity   int                  `json:"quantity"`
	Attributes []AttributeSelection `json:"attributes"`
}

// PlaceOrderInput is the client's order. Client-side prices are never part of
// it; unit prices come from the catalog.
type PlaceOrderInput struct {
	Items    []LineInput `json:"items"`
	Currency string      `json:"currency"`
}

type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderItem struct {
	ID         uint            `json:"id"`
	Product    ProductRef      `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  float64         `json:"unitPrice"`
	Attributes json.RawMessage `json:"attributes"`
}

type Order struct {
	ID        uint        `json:"id"`
	Total     float64     `json:"total"`
	Currency  string      `json:"currency"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// Result is what placing an order reports back. Order is nil unless Success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order"`
}
