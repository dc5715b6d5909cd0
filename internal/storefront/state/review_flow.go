package state

import (
	"context"
	"errors"
	"strings"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/command"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// ReviewFlow submits manual and AI reviews for the selected product
type ReviewFlow struct {
	detail   *DetailController
	session  *SessionStore
	submit   *command.SubmitReviewHandler
	generate *command.GenerateReviewHandler
	errs     *ErrorSlot
	guard    *inflight
}

// NewReviewFlow creates a review flow
func NewReviewFlow(
	detail *DetailController,
	session *SessionStore,
	writer domain.ReviewWriter,
	generator domain.TextGenerator,
	publisher domain.ActivityPublisher,
	errs *ErrorSlot,
) *ReviewFlow {
	return &ReviewFlow{
		detail:   detail,
		session:  session,
		submit:   command.NewSubmitReviewHandler(writer, publisher),
		generate: command.NewGenerateReviewHandler(generator, writer, publisher),
		errs:     errs,
		guard:    newInflight(),
	}
}

// SubmitManualReview posts text as the signed-in user's review. Without a
// selection, with blank text or without a session it does nothing and
// returns the matching sentinel error.
func (f *ReviewFlow) SubmitManualReview(ctx context.Context, text string) error {
	product, token, ok := f.detail.current()
	if !ok {
		return domain.ErrNoSelection
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrBlankInput
	}
	user := f.session.User()
	if user == nil {
		return domain.ErrNotSignedIn
	}

	return f.run(ctx, product.ID, token, func() (*domain.Review, error) {
		return f.submit.Handle(ctx, command.SubmitReviewCommand{
			ProductID: product.ID,
			UserID:    user.ID,
			Author:    user.Email,
			Content:   text,
		})
	})
}

// GenerateAIReview writes a review for the selected product with the text generator
func (f *ReviewFlow) GenerateAIReview(ctx context.Context) error {
	product, token, ok := f.detail.current()
	if !ok {
		return domain.ErrNoSelection
	}

	return f.run(ctx, product.ID, token, func() (*domain.Review, error) {
		return f.generate.Handle(ctx, command.GenerateReviewCommand{
			ProductID:   product.ID,
			ProductName: product.Name,
		})
	})
}

// Pending reports whether a review operation for productID is running
func (f *ReviewFlow) Pending(productID string) bool {
	return f.guard.busy(productID)
}

func (f *ReviewFlow) run(ctx context.Context, productID, token string, op func() (*domain.Review, error)) error {
	if !f.guard.acquire(productID) {
		return domain.ErrInFlight
	}
	defer f.guard.release(productID)

	f.detail.beginWork()
	defer f.detail.endWork()

	review, err := op()
	if err != nil {
		if isGuard(err) {
			return err
		}
		logger.Error(ctx).Err(err).Str("product_id", productID).Msg("Review operation failed")
		f.errs.Set(domain.UserMessage(err, "Failed to submit review."))
		return err
	}

	if !f.detail.prepend(token, *review) {
		logger.Debug(ctx).Str("review_id", review.ID).Msg("Selection changed, review not shown")
		return ErrSuperseded
	}
	return nil
}

// isGuard reports precondition failures that never reach the error slot
func isGuard(err error) bool {
	return errors.Is(err, domain.ErrBlankInput) ||
		errors.Is(err, domain.ErrNotSignedIn) ||
		errors.Is(err, domain.ErrNoSelection)
}
