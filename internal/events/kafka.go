package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/segmentio/kafka-go"
)

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by Event.Key.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafka(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// NewPublisher returns a Kafka publisher, or Noop when brokersCSV is empty.
func NewPublisher(brokersCSV, topic string) Publisher {
	brokers := ParseBrokers(brokersCSV)
	if len(brokers) == 0 {
		return Noop{}
	}
	return NewKafka(brokers, topic)
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Key), Value: data, Time: e.CreatedAt})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
