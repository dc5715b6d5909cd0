package command

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// GenerateReviewCommand represents the command to write an AI review for a product
type GenerateReviewCommand struct {
	ProductID   string
	ProductName string
}

// GenerateReviewHandler asks the text generator for a review and stores it
type GenerateReviewHandler struct {
	generator domain.TextGenerator
	writer    domain.ReviewWriter
	publisher domain.ActivityPublisher
}

// NewGenerateReviewHandler creates a new generate review handler
func NewGenerateReviewHandler(generator domain.TextGenerator, writer domain.ReviewWriter, publisher domain.ActivityPublisher) *GenerateReviewHandler {
	return &GenerateReviewHandler{generator: generator, writer: writer, publisher: publisher}
}

// Handle executes the generate review command
func (h *GenerateReviewHandler) Handle(ctx context.Context, cmd GenerateReviewCommand) (*domain.Review, error) {
	if cmd.ProductID == "" {
		return nil, domain.ErrNoSelection
	}

	content, err := h.generator.GenerateReview(ctx, cmd.ProductName)
	if err != nil {
		return nil, domain.NewSubmissionError("generate review", "Failed to generate AI review.", err)
	}

	review, err := h.writer.CreateReview(ctx, domain.NewReview{
		ProductID: cmd.ProductID,
		Author:    domain.AILabel,
		Content:   content,
		IsAI:      true,
	})
	if err != nil {
		return nil, domain.NewSubmissionError("generate review", "Failed to generate AI review.", err)
	}

	publishActivity(ctx, h.publisher, domain.ActivityEvent{
		Type:      domain.EventReviewGenerated,
		ProductID: cmd.ProductID,
	})

	return review, nil
}
