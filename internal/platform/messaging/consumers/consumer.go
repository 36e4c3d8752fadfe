package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/skillforge-lms/internal/config"
)

// MessageHandler processes one consumed message. A non-nil error leaves the
// offset uncommitted so the message is redelivered.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error
	Close() error
}

// KafkaConsumer implements Consumer on a kafka-go reader with manual offset
// commits.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Brokers},
		Topic:       cfg.ActivityTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader, logger: logger}
}

// Subscribe starts the consume loop in a goroutine. The loop runs until ctx
// is canceled; fetch errors back off for a second and retry.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic", "topic", topic, "group_id", groupID)

	go func() {
		for {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer", "topic", topic, "group_id", groupID)
				return
			}

			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Context canceled, stopping consumer", "topic", topic, "group_id", groupID)
					return
				}
				c.logger.Error("Failed to fetch message from Kafka",
					"topic", topic,
					"group_id", groupID,
					"error", err,
				)
				time.Sleep(time.Second)
				continue
			}

			c.consume(ctx, msg, handler)
		}
	}()

	return nil
}

// consume runs the handler for one message and commits the offset only on
// success. Uncommitted messages come back on the next rebalance or restart,
// which is what lets the handler route poison input to the DLQ before
// acknowledging.
func (c *KafkaConsumer) consume(ctx context.Context, msg kafka.Message, handler MessageHandler) {
	msgLogger := c.logger.With(
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"key", string(msg.Key),
	)
	msgLogger.Debug("Received message from Kafka")

	if err := handler(ctx, msg.Key, msg.Value); err != nil {
		msgLogger.Error("Failed to process message, will not commit offset", "error", err)
		return
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		msgLogger.Error("Failed to commit message after successful processing", "error", err)
		return
	}
	msgLogger.Debug("Message committed successfully")
}

func (c *KafkaConsumer) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
