package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/skillforge-lms/internal/config"
)

// ActivityEventProducer publishes activity events for the async processor.
// Writes are asynchronous: audit publication must not block the request path,
// and a lost event costs an audit line, not an enrollment.
type ActivityEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewActivityEventProducer builds the producer and ensures the topic exists
// before the first publish.
func NewActivityEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ActivityEventProducer, error) {
	if cfg.ActivityTopic == "" {
		return nil, fmt.Errorf("kafka activity topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for activity producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, logger, cfg.ActivityTopic, cfg.NumPartitions, cfg.ReplicationFactor); err != nil {
		return nil, fmt.Errorf("failed to ensure activity topic %s exists: %w", cfg.ActivityTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.ActivityTopic, "error", err, "count", len(messages))
				return
			}
			logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.ActivityTopic, "count", len(messages))
		},
	}

	return &ActivityEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ActivityTopic,
	}, nil
}

func (p *ActivityEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for activity producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via activity producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published message via activity producer", "topic", p.topic, "key", key)
	return nil
}

func (p *ActivityEventProducer) Close() error {
	p.logger.Info("Closing activity event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close activity kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
