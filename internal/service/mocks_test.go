package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/reviewme/catalog/internal/cache"
	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

// --- Mock Product Repository ---

type mockProductRepository struct {
	mock.Mock
}

var _ repository.ProductRepository = (*mockProductRepository)(nil)

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateRatingAggregate(ctx context.Context, id string, avg float64, total int) error {
	args := m.Called(ctx, id, avg, total)
	return args.Error(0)
}

// --- Mock Review Repository ---

type mockReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*mockReviewRepository)(nil)

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) IncrementHelpful(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Summary(ctx context.Context, productID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

// --- Recording Event Publisher ---

type recordingPublisher struct {
	created []string
	updated []string
	deleted []string
}

var _ EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) ProductCreated(_ context.Context, product *domain.Product) {
	p.created = append(p.created, "product:"+product.ID)
}

func (p *recordingPublisher) ProductUpdated(_ context.Context, product *domain.Product) {
	p.updated = append(p.updated, "product:"+product.ID)
}

func (p *recordingPublisher) ProductDeleted(_ context.Context, id string) {
	p.deleted = append(p.deleted, "product:"+id)
}

func (p *recordingPublisher) ReviewCreated(_ context.Context, review *domain.Review) {
	p.created = append(p.created, "review:"+review.ID)
}

func (p *recordingPublisher) ReviewUpdated(_ context.Context, review *domain.Review) {
	p.updated = append(p.updated, "review:"+review.ID)
}

func (p *recordingPublisher) ReviewDeleted(_ context.Context, review *domain.Review) {
	p.deleted = append(p.deleted, "review:"+review.ID)
}

// --- Test Helpers ---

func newTestProductService(t *testing.T, repo *mockProductRepository) (*ProductService, *recordingPublisher) {
	t.Helper()
	events := &recordingPublisher{}
	return NewProductService(repo, cache.NewNoopProductCache(), events, newTestLogger()), events
}

func newTestReviewService(t *testing.T, reviewRepo *mockReviewRepository, productRepo *mockProductRepository) (*ReviewService, *recordingPublisher) {
	t.Helper()
	events := &recordingPublisher{}
	aggregator := NewRatingAggregator(reviewRepo, productRepo, cache.NewNoopProductCache())
	return NewReviewService(reviewRepo, productRepo, aggregator, events, newTestLogger()), events
}
