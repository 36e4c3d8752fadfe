package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const partitionReadAttempts = 5

// ensureTopic creates the topic when the broker does not know it yet. Reading
// partitions right after broker startup can fail transiently, so the read is
// retried before concluding the topic is missing.
func ensureTopic(conn *kafka.Conn, log *slog.Logger, topic string, numPartitions, replicationFactor int) error {
	log.Info("Checking if Kafka topic exists", "topic", topic)

	var partitions []kafka.Partition
	var readErr error
	for attempt := 1; attempt <= partitionReadAttempts; attempt++ {
		partitions, readErr = conn.ReadPartitions(topic)
		if readErr == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying", "topic", topic, "attempt", attempt, "error", readErr)
		time.Sleep(2 * time.Second)
	}

	if len(partitions) > 0 {
		if readErr != nil {
			log.Warn("Kafka topic seems to exist but the final partition read failed", "topic", topic, "error", readErr)
		} else {
			log.Info("Kafka topic already exists", "topic", topic)
		}
		return nil
	}

	log.Info("Kafka topic does not exist or is not accessible, creating it", "topic", topic, "last_read_error", readErr)

	if numPartitions <= 0 {
		numPartitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}

	log.Info("Successfully created Kafka topic", "topic", topic)
	return nil
}
