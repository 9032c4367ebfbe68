package service

import (
	"context"
	"fmt"

	"github.com/reviewme/catalog/internal/cache"
	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/repository"
)

// RatingAggregator keeps a product's derived rating fields in sync with its
// review set. Recompute runs after every review write; the read and the
// write-back are two separate store operations, so a crash between them can
// leave the aggregate stale until the next review write repairs it.
type RatingAggregator struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	cache       cache.ProductCache
}

// NewRatingAggregator creates a rating aggregator over the two repositories.
func NewRatingAggregator(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, productCache cache.ProductCache) *RatingAggregator {
	return &RatingAggregator{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		cache:       productCache,
	}
}

// Recompute recalculates the rating aggregate for productID from its full
// review set and writes it onto the product. A product with no reviews is
// reset to (0, 0). The average is stored unrounded.
func (a *RatingAggregator) Recompute(ctx context.Context, productID string) (*domain.RatingSummary, error) {
	summary, err := a.reviewRepo.Summary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews for product %s: %w", productID, err)
	}

	if err := a.productRepo.UpdateRatingAggregate(ctx, productID, summary.AverageRating, summary.TotalReviews); err != nil {
		return nil, fmt.Errorf("write rating aggregate for product %s: %w", productID, err)
	}

	a.cache.Invalidate(ctx, productID)

	return summary, nil
}
