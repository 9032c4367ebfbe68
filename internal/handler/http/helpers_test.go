package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reviewme/catalog/internal/cache"
	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/event"
	"github.com/reviewme/catalog/internal/repository"
	"github.com/reviewme/catalog/internal/service"
	"github.com/reviewme/catalog/pkg/httputil"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) UpdateRatingAggregate(ctx context.Context, id string, avg float64, total int) error {
	args := m.Called(ctx, id, avg, total)
	return args.Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepo) IncrementHelpful(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Summary(ctx context.Context, productID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

// =============================================================================
// Test helpers
// =============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestRouter(productRepo *mockProductRepo, reviewRepo *mockReviewRepo) *chi.Mux {
	logger := testLogger()
	noopCache := cache.NewNoopProductCache()
	events := event.NewNoopPublisher()

	aggregator := service.NewRatingAggregator(reviewRepo, productRepo, noopCache)
	productSvc := service.NewProductService(productRepo, noopCache, events, logger)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, aggregator, events, logger)

	r := chi.NewRouter()
	r.Route("/products", NewProductHandler(productSvc, logger).Routes)
	r.Route("/reviews", NewReviewHandler(reviewSvc, logger).Routes)
	return r
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorEnvelope {
	t.Helper()
	var env httputil.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

const (
	testProductID = "550e8400-e29b-41d4-a716-446655440001"
	testReviewID  = "550e8400-e29b-41d4-a716-446655440002"
)

func testProduct() *domain.Product {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:            testProductID,
		Name:          "Yoga Mat Premium",
		Description:   "Non-slip yoga mat with alignment lines",
		PriceCents:    3999,
		Category:      "Sports & Exercise",
		ImageURL:      "https://cdn.example.com/yoga-mat.jpg",
		AverageRating: 4.5,
		TotalReviews:  2,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func testReview() *domain.Review {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Review{
		ID:        testReviewID,
		ProductID: testProductID,
		Username:  "BraveOtter42",
		Rating:    4,
		Title:     "Solid mat",
		Comment:   "Grippy surface, holds up well.",
		Helpful:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
