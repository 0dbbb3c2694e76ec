package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, ParseBrokers(""))
}

func TestNewPublisher_NoopWithoutBrokers(t *testing.T) {
	_, ok := NewPublisher("", "topic").(Noop)
	assert.True(t, ok)
}

func TestKafkaPublisher_WritesKeyedEnvelope(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	e, err := New(TypeCartCheckedOut, "crio@example.com", CheckedOut{
		UserID:        "u1",
		Email:         "crio@example.com",
		Amount:        decimal.RequireFromString("300"),
		WalletBalance: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "crio@example.com", string(msg.Key))

	var decoded struct {
		ID      string     `json:"id"`
		Type    string     `json:"type"`
		Payload CheckedOut `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, TypeCartCheckedOut, decoded.Type)
	assert.True(t, decoded.Payload.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, decoded.Payload.WalletBalance.Equal(decimal.NewFromInt(200)))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
