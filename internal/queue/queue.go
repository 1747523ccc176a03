// Package queue publishes alert events to a message broker: NATS JetStream,
// Redis Streams, Kafka, or an in-process memory queue.
package queue

import "context"

// Type names a broker backend.
type Type string

// Supported backends.
const (
	TypeNATS   Type = "nats"
	TypeRedis  Type = "redis"
	TypeKafka  Type = "kafka"
	TypeMemory Type = "memory"
)

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and waits for all to complete.
	// Returns the number of successfully published messages and any error
	PublishBatch(ctx context.Context, messages []Message) (int, error)

	// Close closes the connection
	Close() error
}

// Message is one event addressed to a subject.
type Message struct {
	Subject string
	Data    []byte
}
