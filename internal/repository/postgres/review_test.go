package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewme/catalog/internal/domain"
	apperrors "github.com/reviewme/catalog/pkg/errors"
)

var reviewCols = []string{
	"id", "product_id", "username", "rating", "title", "comment",
	"helpful", "created_at", "updated_at",
}

func sampleReview() domain.Review {
	return domain.Review{
		ID:        "2c8a4f7e-55cc-4a59-8f21-9f0d2e3b0001",
		ProductID: "9f4b9f64-19e5-4a3d-93bb-6a4a1e2c0001",
		Username:  "BraveOtter42",
		Rating:    4,
		Title:     "Solid mat",
		Comment:   "Grippy surface, holds up well.",
		Helpful:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func reviewRow(rev domain.Review) []any {
	return []any{
		rev.ID, rev.ProductID, rev.Username, rev.Rating, rev.Title, rev.Comment,
		rev.Helpful, rev.CreatedAt, rev.UpdatedAt,
	}
}

func TestReviewRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rev.ID, rev.ProductID, rev.Username, rev.Rating, rev.Title,
			rev.Comment, rev.Helpful, rev.CreatedAt, rev.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &rev)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create_DuplicateUsername(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(
			rev.ID, rev.ProductID, rev.Username, rev.Rating, rev.Title,
			rev.Comment, rev.Helpful, rev.CreatedAt, rev.UpdatedAt,
		).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "reviews_product_username_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &rev)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id").
		WithArgs(rev.ID).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rev)...))

	result, err := repo.GetByID(context.Background(), rev.ID)
	require.NoError(t, err)
	assert.Equal(t, rev.ID, result.ID)
	assert.Equal(t, rev.ProductID, result.ProductID)
	assert.Equal(t, rev.Username, result.Username)
	assert.Equal(t, rev.Helpful, result.Helpful)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	first := sampleReview()
	second := sampleReview()
	second.ID = "2c8a4f7e-55cc-4a59-8f21-9f0d2e3b0002"
	second.Username = "CalmHeron7"

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE product_id .+ ORDER BY created_at DESC").
		WithArgs(first.ProductID).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(reviewRow(first)...).
			AddRow(reviewRow(second)...))

	reviews, err := repo.ListByProductID(context.Background(), first.ProductID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, first.ID, reviews[0].ID)
	assert.Equal(t, second.ID, reviews[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProductID_UnknownProductYieldsEmpty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE product_id").
		WithArgs("unknown-product").
		WillReturnRows(pgxmock.NewRows(reviewCols))

	reviews, err := repo.ListByProductID(context.Background(), "unknown-product")
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListAll_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()
	mock.ExpectQuery("SELECT .+ FROM reviews ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rev)...))

	reviews, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, rev.ID, reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()
	rev.Rating = 5
	rev.Title = "Even better after a month"

	mock.ExpectExec("UPDATE reviews SET rating").
		WithArgs(rev.Rating, rev.Title, rev.Comment, rev.UpdatedAt, rev.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &rev)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()

	mock.ExpectExec("UPDATE reviews SET rating").
		WithArgs(rev.Rating, rev.Title, rev.Comment, rev.UpdatedAt, rev.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &rev)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE id").
		WithArgs("rev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "rev-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectExec("DELETE FROM reviews WHERE id").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_IncrementHelpful_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	rev := sampleReview()
	rev.Helpful = 4

	mock.ExpectQuery(`UPDATE reviews SET helpful = helpful \+ 1, updated_at = now\(\)`).
		WithArgs(rev.ID).
		WillReturnRows(pgxmock.NewRows(reviewCols).AddRow(reviewRow(rev)...))

	result, err := repo.IncrementHelpful(context.Background(), rev.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Helpful)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_IncrementHelpful_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("UPDATE reviews SET helpful = helpful").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.IncrementHelpful(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Summary_WithReviews(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	// Average is stored unrounded: (5+4+2)/3.
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM reviews WHERE product_id`).
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(11.0/3.0, 3))

	summary, err := repo.Summary(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.6667, summary.AverageRating, 0.0001)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Summary_NoReviews(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewReviewRepository(mock)

	mock.ExpectQuery(`SELECT COALESCE\(AVG\(rating\), 0\), COUNT\(\*\) FROM reviews WHERE product_id`).
		WithArgs("prod-2").
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(0.0, 0))

	summary, err := repo.Summary(context.Background(), "prod-2")
	require.NoError(t, err)
	assert.Zero(t, summary.AverageRating)
	assert.Zero(t, summary.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}
