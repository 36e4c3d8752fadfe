package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes JSON-encoded values to a primary topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher routes messages that cannot be processed to a dead
// letter topic together with the failure reason
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps the kafka.Writer surface the producers use, so tests can
// substitute a mock
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
