package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/storefront-labs/catalog/app/api"
	"github.com/storefront-labs/catalog/models"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type ProductProvider interface {
	ListProducts(ctx context.Context, category string) []Product
	GetProduct(ctx context.Context, id string) (*Product, error)
}

type CatalogHandler struct {
	svc ProductProvider
}

func NewCatalogHandler(s ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		svc: s,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			limit = min(max(l, 1), 100)
		}
	}

	products := h.svc.ListProducts(r.Context(), r.URL.Query().Get("category"))

	start := min(offset, len(products))
	end := min(offset+limit, len(products))
	api.JSON(w, http.StatusOK, Response{
		Total:    len(products),
		Products: products[start:end],
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	api.JSON(w, http.StatusOK, product)
}
