package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reviewme/catalog/internal/cache"
	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/repository"
	apperrors "github.com/reviewme/catalog/pkg/errors"
	"github.com/reviewme/catalog/pkg/pagination"
)

// CreateProductInput holds the caller-supplied fields for a new product.
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Category    string
	ImageURL    string
}

// UpdateProductInput holds the caller-supplied fields for a product update.
// Nil fields are left unchanged; the derived rating fields are not settable.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	ImageURL    *string
}

// ListProductsInput describes a product listing request.
type ListProductsInput struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products    []domain.Product
	TotalPages  int
	CurrentPage int
}

// ProductService implements product catalog business logic.
type ProductService struct {
	repo   repository.ProductRepository
	cache  cache.ProductCache
	events EventPublisher
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, productCache cache.ProductCache, events EventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  productCache,
		events: events,
		logger: logger,
	}
}

// Create adds a new product to the catalog. The rating aggregate starts at
// (0, 0) regardless of input.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.PriceCents < 0 {
		return nil, apperrors.InvalidInput("priceCents must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Description:   input.Description,
		PriceCents:    input.PriceCents,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
		AverageRating: 0,
		TotalReviews:  0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category", product.Category),
	)

	s.events.ProductCreated(ctx, product)

	return product, nil
}

// GetByID fetches a single product, consulting the cache first.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, product)

	return product, nil
}

// List returns one page of the catalog. An unknown sort key is rejected; an
// empty one falls back to newest-first. When a search term is present the
// store ranks by relevance before applying the requested sort.
func (s *ProductService) List(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	sort := input.Sort
	if sort == "" {
		sort = domain.SortNewest
	}
	if !domain.IsValidSort(sort) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort %q", input.Sort))
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	filter := repository.ProductFilter{
		Sort:    sort,
		Page:    page,
		PerPage: limit,
	}
	if input.Category != "" {
		filter.Category = &input.Category
	}
	if input.Search != "" {
		filter.Search = &input.Search
	}

	products, totalCount, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ProductPage{
		Products:    products,
		TotalPages:  pagination.TotalPages(totalCount, limit),
		CurrentPage: page,
	}, nil
}

// Update merges the provided fields onto a product, leaving omitted ones
// untouched. The rating aggregate is never affected.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if input.PriceCents != nil && *input.PriceCents < 0 {
		return nil, apperrors.InvalidInput("priceCents must not be negative")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))

	s.events.ProductUpdated(ctx, product)

	return product, nil
}

// Delete removes a product. The store cascades the delete to the product's
// reviews.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	s.events.ProductDeleted(ctx, id)

	return nil
}
