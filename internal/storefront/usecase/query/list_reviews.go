package query

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// ListReviewsQuery represents the query to list the reviews of one product
type ListReviewsQuery struct {
	ProductID string
}

// ListReviewsHandler handles list reviews query
type ListReviewsHandler struct {
	reader domain.CatalogReader
}

// NewListReviewsHandler creates a new list reviews handler
func NewListReviewsHandler(reader domain.CatalogReader) *ListReviewsHandler {
	return &ListReviewsHandler{reader: reader}
}

// Handle executes the list reviews query
func (h *ListReviewsHandler) Handle(ctx context.Context, query ListReviewsQuery) ([]domain.Review, error) {
	if query.ProductID == "" {
		return nil, domain.ErrNoSelection
	}

	reviews, err := h.reader.ListReviews(ctx, query.ProductID)
	if err != nil {
		return nil, domain.NewFetchError("list reviews", "Failed to fetch reviews.", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
