// Package events publishes cart changes for downstream consumers. Delivery
// is best effort and happens after the change is committed.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	CartItemAdded   = "cart_item_added"
	CartItemUpdated = "cart_item_updated"
	CartItemRemoved = "cart_item_removed"
	CartCleared     = "cart_cleared"
)

type CartEvent struct {
	Type       string     `json:"type"`
	UserID     uuid.UUID  `json:"user_id"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	Quantity   int        `json:"quantity"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev CartEvent) error
}

// Producer is satisfied by *mykafka.Producer.
type Producer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type KafkaPublisher struct {
	Producer Producer
	Topic    string
}

// Publish keys messages by user so one user's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, ev CartEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return p.Producer.PublishEvent(ctx, p.Topic, ev.UserID.String(), ev)
}

type Noop struct{}

func (Noop) Publish(context.Context, CartEvent) error { return nil }
