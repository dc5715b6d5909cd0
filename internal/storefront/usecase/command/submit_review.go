package command

import (
	"context"
	"strings"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// SubmitReviewCommand represents a review written by a signed-in shopper
type SubmitReviewCommand struct {
	ProductID string
	UserID    string
	Author    string
	Content   string
}

// SubmitReviewHandler handles manual review submission
type SubmitReviewHandler struct {
	writer    domain.ReviewWriter
	publisher domain.ActivityPublisher
}

// NewSubmitReviewHandler creates a new submit review handler
func NewSubmitReviewHandler(writer domain.ReviewWriter, publisher domain.ActivityPublisher) *SubmitReviewHandler {
	return &SubmitReviewHandler{writer: writer, publisher: publisher}
}

// Handle executes the submit review command. Missing preconditions return
// sentinel errors without touching the backend.
func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	if cmd.ProductID == "" {
		return nil, domain.ErrNoSelection
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return nil, domain.ErrBlankInput
	}
	if cmd.Author == "" {
		return nil, domain.ErrNotSignedIn
	}

	review, err := h.writer.CreateReview(ctx, domain.NewReview{
		ProductID: cmd.ProductID,
		Author:    cmd.Author,
		Content:   cmd.Content,
	})
	if err != nil {
		return nil, domain.NewSubmissionError("submit review", "Failed to submit review.", err)
	}

	publishActivity(ctx, h.publisher, domain.ActivityEvent{
		Type:      domain.EventReviewSubmitted,
		ProductID: cmd.ProductID,
		UserID:    cmd.UserID,
	})

	return review, nil
}
