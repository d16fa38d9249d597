package categories

import (
	"context"
	"net/http"

	"github.com/storefront-labs/catalog/app/api"
	"github.com/storefront-labs/catalog/app/catalog"
)

type CategoryResponse struct {
	Name string `json:"name"`
}

type CategoryDetailResponse struct {
	Name     string            `json:"name"`
	Products []catalog.Product `json:"products"`
}

type CategoryProvider interface {
	ListCategories(ctx context.Context) []catalog.Category
	GetCategory(ctx context.Context, name string) (*catalog.Category, error)
	ListProducts(ctx context.Context, category string) []catalog.Product
}

type CategoryHandler struct {
	svc CategoryProvider
}

func NewCategoryHandler(s CategoryProvider) *CategoryHandler {
	return &CategoryHandler{svc: s}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories := h.svc.ListCategories(r.Context())

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{Name: c.Name}
	}

	api.JSON(w, http.StatusOK, response)
}

// HandleGet returns one category with its products.
func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.GetCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		api.Error(w, http.StatusNotFound, "Category not found")
		return
	}

	api.JSON(w, http.StatusOK, CategoryDetailResponse{
		Name:     category.Name,
		Products: h.svc.ListProducts(r.Context(), category.Name),
	})
}
