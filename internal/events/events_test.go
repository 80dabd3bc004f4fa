package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	topic, key string
	payload    []byte
}

func (r *recordingProducer) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.topic, r.key = topic, key
	b, err := json.Marshal(event)
	r.payload = b
	return err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	prod := &recordingProducer{}
	pub := &KafkaPublisher{Producer: prod, Topic: "cart_events"}

	user, item := uuid.New(), uuid.New()
	require.NoError(t, pub.Publish(context.Background(), CartEvent{
		Type:     CartItemUpdated,
		UserID:   user,
		ItemID:   &item,
		Quantity: 3,
	}))

	assert.Equal(t, "cart_events", prod.topic)
	assert.Equal(t, user.String(), prod.key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(prod.payload, &got))
	assert.Equal(t, CartItemUpdated, got["type"])
	assert.Equal(t, item.String(), got["item_id"])
	assert.EqualValues(t, 3, got["quantity"])
	assert.NotEmpty(t, got["occurred_at"])
	assert.NotContains(t, got, "product_id")
}

func TestNoop(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Noop{}.Publish(context.Background(), CartEvent{Type: CartCleared}))
}
