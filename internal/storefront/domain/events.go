package domain

import "time"

// Activity event types
const (
	EventAffiliateClicked  = "affiliate.clicked"
	EventReviewSubmitted   = "review.submitted"
	EventReviewGenerated   = "review.generated"
	EventProductsGenerated = "products.generated"
)

// ActivityEvent describes something a shopper or admin did in the storefront
type ActivityEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	ProductID string    `json:"product_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	Link      string    `json:"link,omitempty"`
	Occurred  time.Time `json:"occurred_at"`
}
