package domain

import "time"

// AILabel is the author recorded on generated reviews
const AILabel = "Gemini AI"

// Review represents a review attached to a product
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsAI      bool      `json:"is_ai"`
}

// NewReview holds the fields a client supplies when creating a review.
// The backend assigns ID and CreatedAt.
type NewReview struct {
	ProductID string `json:"product_id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	IsAI      bool   `json:"is_ai"`
}
