package domain

import (
	"time"
)

// Sort keys accepted by the product listing.
const (
	SortNewest     = "newest"
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortRatingDesc = "rating-desc"
)

// Product represents a product in the catalog. AverageRating and TotalReviews
// are derived from the product's review set and are written only by the
// rating aggregator.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"priceCents"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	AverageRating float64   `json:"averageRating"`
	TotalReviews  int       `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidSorts returns the set of valid listing sort keys.
func ValidSorts() []string {
	return []string{SortNewest, SortPriceAsc, SortPriceDesc, SortRatingDesc}
}

// IsValidSort checks whether the given string is a valid listing sort key.
func IsValidSort(sort string) bool {
	for _, s := range ValidSorts() {
		if s == sort {
			return true
		}
	}
	return false
}
