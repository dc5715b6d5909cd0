package query

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// ListProductsQuery represents the query to list the whole catalog
type ListProductsQuery struct{}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	reader domain.CatalogReader
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(reader domain.CatalogReader) *ListProductsHandler {
	return &ListProductsHandler{reader: reader}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, _ ListProductsQuery) ([]domain.Product, error) {
	products, err := h.reader.ListProducts(ctx)
	if err != nil {
		return nil, domain.NewFetchError("list products", "Failed to fetch products.", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
