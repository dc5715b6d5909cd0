package state

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/query"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

const msgFetchProducts = "Failed to fetch products."

// CatalogStore holds the product list. A failed refresh keeps the previous list.
type CatalogStore struct {
	notifier

	list *query.ListProductsHandler
	errs *ErrorSlot

	mu       sync.RWMutex
	products []domain.Product
	pending  int
	started  uint64
	applied  uint64
}

// NewCatalogStore creates an empty catalog store
func NewCatalogStore(reader domain.CatalogReader, errs *ErrorSlot) *CatalogStore {
	return &CatalogStore{
		list:     query.NewListProductsHandler(reader),
		errs:     errs,
		products: []domain.Product{},
	}
}

// Products returns a copy of the current list in fetch order
func (c *CatalogStore) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

// Loading is true while a refresh runs
func (c *CatalogStore) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// Refresh fetches the whole catalog and swaps it in. When refreshes overlap
// the most recently started one that succeeds wins.
func (c *CatalogStore) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.pending++
	c.started++
	seq := c.started
	c.mu.Unlock()

	c.errs.Clear()
	c.notify()

	products, err := c.list.Handle(ctx, query.ListProductsQuery{})

	c.mu.Lock()
	c.pending--
	if err == nil && seq > c.applied {
		c.products = products
		c.applied = seq
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx).Err(err).Msg("Failed to refresh catalog")
		c.errs.Set(domain.UserMessage(err, msgFetchProducts))
	}
	c.notify()
	return err
}
