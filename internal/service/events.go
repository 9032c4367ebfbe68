package service

import (
	"context"

	"github.com/reviewme/catalog/internal/domain"
)

// EventPublisher emits domain events after successful writes. Implementations
// are best-effort; the methods never fail the calling operation.
type EventPublisher interface {
	ProductCreated(ctx context.Context, product *domain.Product)
	ProductUpdated(ctx context.Context, product *domain.Product)
	ProductDeleted(ctx context.Context, id string)
	ReviewCreated(ctx context.Context, review *domain.Review)
	ReviewUpdated(ctx context.Context, review *domain.Review)
	ReviewDeleted(ctx context.Context, review *domain.Review)
}
