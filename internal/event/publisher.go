package event

import (
	"context"
	"log/slog"

	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/pkg/kafka"
	"github.com/reviewme/catalog/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicProducts = "catalog.products"
	TopicReviews  = "catalog.reviews"
)

// Event types carried on the catalog topics.
const (
	TypeProductCreated = "product.created"
	TypeProductUpdated = "product.updated"
	TypeProductDeleted = "product.deleted"
	TypeReviewCreated  = "review.created"
	TypeReviewUpdated  = "review.updated"
	TypeReviewDeleted  = "review.deleted"
)

const source = "catalog-service"

// Publisher emits catalog domain events to Kafka after successful writes.
// Publishing is best-effort: a broker failure is logged and never surfaced,
// so the HTTP request that triggered the write still succeeds.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a catalog event publisher on top of the Kafka producer.
func NewPublisher(producer *kafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	// Producer.Publish already logs the failure with topic and type.
	_ = p.producer.Publish(ctx, topic, evt)
}

func (p *Publisher) ProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TopicProducts, TypeProductCreated, product.ID, "product", product)
}

func (p *Publisher) ProductUpdated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TopicProducts, TypeProductUpdated, product.ID, "product", product)
}

func (p *Publisher) ProductDeleted(ctx context.Context, id string) {
	p.publish(ctx, TopicProducts, TypeProductDeleted, id, "product", map[string]string{"id": id})
}

func (p *Publisher) ReviewCreated(ctx context.Context, review *domain.Review) {
	p.publish(ctx, TopicReviews, TypeReviewCreated, review.ID, "review", review)
}

func (p *Publisher) ReviewUpdated(ctx context.Context, review *domain.Review) {
	p.publish(ctx, TopicReviews, TypeReviewUpdated, review.ID, "review", review)
}

func (p *Publisher) ReviewDeleted(ctx context.Context, review *domain.Review) {
	p.publish(ctx, TopicReviews, TypeReviewDeleted, review.ID, "review", review)
}

// NoopPublisher discards all events. Used when event publishing is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) ProductCreated(context.Context, *domain.Product) {}
func (NoopPublisher) ProductUpdated(context.Context, *domain.Product) {}
func (NoopPublisher) ProductDeleted(context.Context, string)          {}
func (NoopPublisher) ReviewCreated(context.Context, *domain.Review)   {}
func (NoopPublisher) ReviewUpdated(context.Context, *domain.Review)   {}
func (NoopPublisher) ReviewDeleted(context.Context, *domain.Review)   {}
