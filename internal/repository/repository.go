package repository

import (
	"context"

	"github.com/reviewme/catalog/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	Search   *string
	Sort     string
	Page     int
	PerPage  int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store. It never touches the
	// derived rating fields.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier. The store
	// cascades the delete to the product's reviews.
	Delete(ctx context.Context, id string) error

	// UpdateRatingAggregate overwrites ONLY the product's averageRating and
	// totalReviews fields (plus updated_at).
	UpdateRatingAggregate(ctx context.Context, id string, avg float64, total int) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review. A duplicate (product, username) pair is
	// reported as an already-exists error by the store's unique constraint.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProductID returns all reviews for a product, newest first.
	ListByProductID(ctx context.Context, productID string) ([]domain.Review, error)

	// ListAll returns every review in the store, newest first.
	ListAll(ctx context.Context) ([]domain.Review, error)

	// Update modifies an existing review in the store.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// IncrementHelpful atomically increments the helpful counter by one and
	// returns the updated review.
	IncrementHelpful(ctx context.Context, id string) (*domain.Review, error)

	// Summary computes the current rating aggregate for a product from its
	// review set: (0, 0) when the product has no reviews.
	Summary(ctx context.Context, productID string) (*domain.RatingSummary, error)
}
