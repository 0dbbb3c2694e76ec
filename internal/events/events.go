// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypeCartCheckedOut = "cart.checked_out"

// Event is the envelope written to the topic. Key selects the partition.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Key       string          `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

// CheckedOut is the payload of a cart.checked_out event.
type CheckedOut struct {
	UserID        string          `json:"userId"`
	Email         string          `json:"email"`
	Amount        decimal.Decimal `json:"amount"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
}

// New wraps payload in an envelope with a fresh id.
func New(eventType, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		CreatedAt: time.Now().UTC(),
		Payload:   data,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
