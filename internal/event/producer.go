package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/utafrali/LotusGo/internal/domain"
	pkgkafka "github.com/utafrali/LotusGo/pkg/kafka"
	"github.com/utafrali/LotusGo/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated  = "lotus.product.created"
	TopicProductUpdated  = "lotus.product.updated"
	TopicProductDeleted  = "lotus.product.deleted"
	TopicCartUpdated     = "lotus.cart.updated"
	TopicWishlistUpdated = "lotus.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from this service.
const SourceCatalog = "lotus-catalog"

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Brand     string  `json:"brand"`
	Category  string  `json:"category"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID      string  `json:"user_id"`
	ItemCount   int     `json:"item_count"`
	Subtotal    float64 `json:"subtotal"`
	TotalAmount float64 `json:"total_amount"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	UserID    string `json:"user_id"`
	ItemCount int    `json:"item_count"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, product domain.Product) error {
	return p.publishProduct(ctx, TopicProductDeleted, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product domain.Product) error {
	data := ProductData{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Stock:     product.Stock,
		Brand:     product.Brand,
		Category:  product.Category,
	}

	aggregateID := strconv.FormatInt(product.ID, 10)
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.Int64("product_id", product.ID),
	)

	return nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, userID string, state domain.CartState) error {
	data := CartUpdatedData{
		UserID:      userID,
		ItemCount:   state.ItemCount,
		Subtotal:    state.Subtotal,
		TotalAmount: state.TotalAmount,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, userID, AggregateTypeCart, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", userID),
		slog.Int("item_count", state.ItemCount),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, userID string, state domain.WishlistState) error {
	data := WishlistUpdatedData{
		UserID:    userID,
		ItemCount: state.ItemCount,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, userID, AggregateTypeWishlist, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("user_id", userID),
	)

	return nil
}
