package state

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/query"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

const msgFetchReviews = "Failed to fetch reviews."

// ErrSuperseded is returned for work whose selection changed before it finished
var ErrSuperseded = errors.New("selection changed")

// DetailController holds the selected product and its reviews.
// Every selection gets a token; results carrying an old token are dropped.
type DetailController struct {
	notifier

	list *query.ListReviewsHandler
	errs *ErrorSlot
	nav  *Navigator

	mu       sync.RWMutex
	selected *domain.Product
	reviews  []domain.Review
	token    string
	cancel   context.CancelFunc
	pending  int
}

// NewDetailController creates a controller with nothing selected
func NewDetailController(reader domain.CatalogReader, errs *ErrorSlot, nav *Navigator) *DetailController {
	return &DetailController{
		list: query.NewListReviewsHandler(reader),
		errs: errs,
		nav:  nav,
	}
}

// Selected returns the selected product, nil when none
func (d *DetailController) Selected() *domain.Product {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.selected == nil {
		return nil
	}
	p := *d.selected
	return &p
}

// Reviews returns the reviews of the selected product, newest first
func (d *DetailController) Reviews() []domain.Review {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.reviews)
}

// Loading is true while reviews load or a review is being submitted
func (d *DetailController) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pending > 0
}

// Select makes product active, clears the review list right away and loads
// the product's reviews. A previous selection's request is cancelled.
func (d *DetailController) Select(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	token := uuid.NewString()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.selected = &product
	d.reviews = []domain.Review{}
	d.token = token
	d.cancel = cancel
	d.pending++
	d.mu.Unlock()

	d.errs.Clear()
	d.notify()

	reviews, err := d.list.Handle(ctx, query.ListReviewsQuery{ProductID: product.ID})

	d.mu.Lock()
	d.pending--
	current := d.token == token
	if current && err == nil {
		d.reviews = reviews
	}
	d.mu.Unlock()
	d.notify()

	if !current {
		logger.Debug(ctx).Str("product_id", product.ID).Msg("Discarded reviews of a previous selection")
		return ErrSuperseded
	}
	if err != nil {
		logger.Error(ctx).Err(err).Str("product_id", product.ID).Msg("Failed to load reviews")
		d.errs.Set(domain.UserMessage(err, msgFetchReviews))
		return err
	}
	return nil
}

// Deselect clears the selection and returns to the home page
func (d *DetailController) Deselect() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.selected = nil
	d.reviews = nil
	d.token = ""
	d.mu.Unlock()

	d.notify()
	d.nav.GoHome()
}

// current returns the selected product and its token
func (d *DetailController) current() (domain.Product, string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.selected == nil {
		return domain.Product{}, "", false
	}
	return *d.selected, d.token, true
}

// prepend adds review at the top when token still names the active selection
func (d *DetailController) prepend(token string, review domain.Review) bool {
	d.mu.Lock()
	if d.token != token || d.selected == nil {
		d.mu.Unlock()
		return false
	}
	d.reviews = append([]domain.Review{review}, d.reviews...)
	d.mu.Unlock()
	d.notify()
	return true
}

func (d *DetailController) beginWork() {
	d.mu.Lock()
	d.pending++
	d.mu.Unlock()
	d.notify()
}

func (d *DetailController) endWork() {
	d.mu.Lock()
	d.pending--
	d.mu.Unlock()
	d.notify()
}
