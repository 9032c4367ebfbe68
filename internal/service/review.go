package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/repository"
	apperrors "github.com/reviewme/catalog/pkg/errors"
)

// CreateReviewInput holds the caller-supplied fields for a new review.
type CreateReviewInput struct {
	ProductID string
	Username  string
	Rating    int
	Title     string
	Comment   string
}

// UpdateReviewInput holds the editable fields of a review edit. Nil fields
// are left unchanged; the product binding and username are immutable.
type UpdateReviewInput struct {
	Rating  *int
	Title   *string
	Comment *string
}

// ReviewService implements review business logic. Every write that can change
// a product's rating recomputes the product's aggregate before returning.
type ReviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
	aggregator  *RatingAggregator
	events      EventPublisher
	logger      *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository, aggregator *RatingAggregator, events EventPublisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:        repo,
		productRepo: productRepo,
		aggregator:  aggregator,
		events:      events,
		logger:      logger,
	}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Create submits a review for a product. The product must exist, the rating
// must be 1..5 and the (product, username) pair must be unused; a duplicate
// pair is rejected without touching the aggregate.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if !validRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between 1 and 5, got %d", input.Rating))
	}

	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Username:  input.Username,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
		Helpful:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.aggregator.Recompute(ctx, review.ProductID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
	)

	s.events.ReviewCreated(ctx, review)

	return review, nil
}

// GetByID fetches a single review.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForProduct returns all reviews for a product, newest first. An unknown
// product yields an empty list rather than an error.
func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.repo.ListByProductID(ctx, productID)
}

// ListAll returns every review in the store, newest first.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListAll(ctx)
}

// Update applies the provided fields to a review, leaving omitted ones
// untouched, then recomputes the product's aggregate.
func (s *ReviewService) Update(ctx context.Context, id string, input UpdateReviewInput) (*domain.Review, error) {
	if input.Rating != nil && !validRating(*input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between 1 and 5, got %d", *input.Rating))
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.aggregator.Recompute(ctx, review.ProductID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	s.events.ReviewUpdated(ctx, review)

	return review, nil
}

// Delete removes a review and recomputes the product's aggregate. Deleting a
// product's last review resets its aggregate to (0, 0).
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.aggregator.Recompute(ctx, review.ProductID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	s.events.ReviewDeleted(ctx, review)

	return nil
}

// MarkHelpful increments the review's helpful counter by one and returns the
// updated review. Votes are unauthenticated and unlimited.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) (*domain.Review, error) {
	return s.repo.IncrementHelpful(ctx, id)
}
