package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/pkg/database"
	apperrors "github.com/reviewme/catalog/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, username, rating, title, comment, helpful, created_at, updated_at`

// Create inserts a new review into the database. A duplicate
// (product, username) pair trips the unique index and is reported as an
// already-exists error.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) (err error) {
	query := `
		INSERT INTO reviews (id, product_id, username, rating, title, comment, helpful, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "CreateReview", query)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, query,
		rev.ID,
		rev.ProductID,
		rev.Username,
		rev.Rating,
		rev.Title,
		rev.Comment,
		rev.Helpful,
		rev.CreatedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "username", rev.Username)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (rev *domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetReview", query)
	defer func() { end(err) }()

	var out domain.Review
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.ProductID,
		&out.Username,
		&out.Rating,
		&out.Title,
		&out.Comment,
		&out.Helpful,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &out, nil
}

// ListByProductID returns all reviews for a product, newest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) (reviews []domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListReviewsByProduct", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// ListAll returns every review in the store, newest first.
func (r *ReviewRepository) ListAll(ctx context.Context) (reviews []domain.Review, err error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListAllReviews", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	reviews := []domain.Review{}

	for rows.Next() {
		var rev domain.Review

		if err := rows.Scan(
			&rev.ID,
			&rev.ProductID,
			&rev.Username,
			&rev.Rating,
			&rev.Title,
			&rev.Comment,
			&rev.Helpful,
			&rev.CreatedAt,
			&rev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// Update modifies an existing review in the database. The product binding and
// username are immutable; only rating, title and comment change.
func (r *ReviewRepository) Update(ctx context.Context, rev *domain.Review) (err error) {
	query := `
		UPDATE reviews
		SET rating = $1, title = $2, comment = $3, updated_at = $4
		WHERE id = $5`

	ctx, end := database.TraceQuery(ctx, "UpdateReview", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query,
		rev.Rating,
		rev.Title,
		rev.Comment,
		rev.UpdatedAt,
		rev.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rev.ID)
	}

	return nil
}

// Delete removes a review from the database by its ID.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM reviews WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteReview", query)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// IncrementHelpful atomically bumps the helpful counter and returns the
// updated review. Concurrent votes serialize on the row, so none are lost.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id string) (rev *domain.Review, err error) {
	query := `
		UPDATE reviews
		SET helpful = helpful + 1, updated_at = now()
		WHERE id = $1
		RETURNING ` + reviewColumns

	ctx, end := database.TraceQuery(ctx, "IncrementHelpful", query)
	defer func() { end(err) }()

	var out domain.Review
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&out.ID,
		&out.ProductID,
		&out.Username,
		&out.Rating,
		&out.Title,
		&out.Comment,
		&out.Helpful,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("increment helpful: %w", err)
	}

	return &out, nil
}

// Summary computes the rating aggregate for a product from its review set.
// A product with no reviews yields (0, 0).
func (r *ReviewRepository) Summary(ctx context.Context, productID string) (summary *domain.RatingSummary, err error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE product_id = $1`

	ctx, end := database.TraceQuery(ctx, "ReviewSummary", query)
	defer func() { end(err) }()

	var out domain.RatingSummary
	err = r.pool.QueryRow(ctx, query, productID).Scan(&out.AverageRating, &out.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}

	return &out, nil
}
