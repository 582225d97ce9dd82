// Package events carries feed lifecycle events between the API and the
// worker over Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeFeedGenerate = "feed.generate"
	TypeFeedCancel   = "feed.cancel"
)

type Event struct {
	Type      string    `json:"type"`
	FeedID    string    `json:"feed_id"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType, feedID string) error {
	payload, err := json.Marshal(Event{Type: eventType, FeedID: feedID, Timestamp: time.Now()})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(feedID), Value: payload})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
