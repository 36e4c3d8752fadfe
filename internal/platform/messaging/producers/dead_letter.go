package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/skillforge-lms/internal/config"
)

// dlqEnvelope wraps a poison message with the reason it was dead-lettered.
type dlqEnvelope struct {
	OriginalKey   string `json:"original_key"`
	OriginalValue string `json:"original_value"`
	DLQReason     string `json:"dlq_reason"`
	Timestamp     string `json:"timestamp"`
}

// DLQProducer publishes dead-lettered messages. Unlike the activity producer
// it writes synchronously with full acks: a message is only removed from the
// main topic's retry path once the DLQ write is confirmed.
type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
}

// NewDLQProducer returns a nil producer when cfg.DLQTopic is empty, which
// disables dead-lettering.
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, dead-lettering disabled")
		return nil, nil
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for dlq producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, logger, cfg.DLQTopic, cfg.NumPartitions, cfg.ReplicationFactor); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write DLQ messages", "topic", cfg.DLQTopic, "error", err, "count", len(messages))
				return
			}
			logger.Debug("Successfully wrote DLQ messages", "topic", cfg.DLQTopic, "count", len(messages))
		},
	}

	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: cfg.DLQTopic,
	}, nil
}

func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	// A disabled DLQ reaches here as a nil receiver; it carries no logger,
	// so the caller reports the failure.
	if p == nil {
		return fmt.Errorf("DLQ producer not initialized")
	}
	if p.writer == nil {
		p.logger.Warn("DLQ producer is not initialized, cannot publish message", "key", key, "reason", reason)
		return fmt.Errorf("DLQ producer not initialized")
	}

	envelope := dlqEnvelope{
		OriginalKey:   key,
		OriginalValue: string(originalMessageValue),
		DLQReason:     reason,
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "dlq-reason", Value: []byte(reason)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message to DLQ",
			"topic", p.dlqTopic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Published message to DLQ", "topic", p.dlqTopic, "key", key, "reason", reason)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ Kafka producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
