package command

import (
	"context"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// OpenAffiliateLinkCommand records a shopper following a product's buy link
type OpenAffiliateLinkCommand struct {
	Product domain.Product
	UserID  string
}

// OpenAffiliateLinkHandler tracks affiliate clicks
type OpenAffiliateLinkHandler struct {
	publisher domain.ActivityPublisher
}

// NewOpenAffiliateLinkHandler creates a new open affiliate link handler
func NewOpenAffiliateLinkHandler(publisher domain.ActivityPublisher) *OpenAffiliateLinkHandler {
	return &OpenAffiliateLinkHandler{publisher: publisher}
}

// Handle publishes the click and returns the link to open
func (h *OpenAffiliateLinkHandler) Handle(ctx context.Context, cmd OpenAffiliateLinkCommand) string {
	publishActivity(ctx, h.publisher, domain.ActivityEvent{
		Type:      domain.EventAffiliateClicked,
		ProductID: cmd.Product.ID,
		UserID:    cmd.UserID,
		Link:      cmd.Product.AffiliateLink,
	})
	return cmd.Product.AffiliateLink
}
