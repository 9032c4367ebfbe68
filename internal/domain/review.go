package domain

import (
	"time"
)

// Review represents a product review submitted under a free-text display
// identity. The store enforces at most one review per (product, username).
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the derived averageRating/totalReviews pair for a product.
// AverageRating is stored unrounded; display rounding is a client concern.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}
