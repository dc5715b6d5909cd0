package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockCatalogReader) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func TestListProductsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		reader := new(MockCatalogReader)
		reader.On("ListProducts", mock.Anything).Return([]domain.Product{{ID: "1", Name: "Mouse"}}, nil)

		products, err := NewListProductsHandler(reader).Handle(t.Context(), ListProductsQuery{})
		require.NoError(t, err)
		assert.Len(t, products, 1)
		reader.AssertExpectations(t)
	})

	t.Run("NilBecomesEmpty", func(t *testing.T) {
		reader := new(MockCatalogReader)
		reader.On("ListProducts", mock.Anything).Return(nil, nil)

		products, err := NewListProductsHandler(reader).Handle(t.Context(), ListProductsQuery{})
		require.NoError(t, err)
		assert.NotNil(t, products)
	})

	t.Run("Failure", func(t *testing.T) {
		reader := new(MockCatalogReader)
		reader.On("ListProducts", mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := NewListProductsHandler(reader).Handle(t.Context(), ListProductsQuery{})
		assert.True(t, domain.IsKind(err, domain.KindFetch))
		assert.Equal(t, "Failed to fetch products.", domain.UserMessage(err, ""))
	})
}

func TestListReviewsHandler(t *testing.T) {
	t.Run("NoSelection", func(t *testing.T) {
		reader := new(MockCatalogReader)

		_, err := NewListReviewsHandler(reader).Handle(t.Context(), ListReviewsQuery{})
		assert.ErrorIs(t, err, domain.ErrNoSelection)
		reader.AssertNotCalled(t, "ListReviews", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		reader := new(MockCatalogReader)
		reader.On("ListReviews", mock.Anything, "1").Return([]domain.Review{{ID: "r", ProductID: "1"}}, nil)

		reviews, err := NewListReviewsHandler(reader).Handle(context.Background(), ListReviewsQuery{ProductID: "1"})
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
	})

	t.Run("Failure", func(t *testing.T) {
		reader := new(MockCatalogReader)
		reader.On("ListReviews", mock.Anything, "1").Return(nil, errors.New("timeout"))

		_, err := NewListReviewsHandler(reader).Handle(context.Background(), ListReviewsQuery{ProductID: "1"})
		assert.Equal(t, "Failed to fetch reviews.", domain.UserMessage(err, ""))
	})
}
