package queue

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMemoryCapacity bounds the messages a MemoryQueue retains per subject.
const DefaultMemoryCapacity = 10000

// MemoryQueue keeps published messages in memory and fans them out to
// registered handlers. Useful for tests and single-process deployments.
type MemoryQueue struct {
	capacity int
	messages map[string][]Message
	handlers map[string][]func(Message)
	closed   bool
	mu       sync.RWMutex
}

// NewMemoryQueue creates a new in-memory queue instance
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		capacity: DefaultMemoryCapacity,
		messages: make(map[string][]Message),
		handlers: make(map[string][]func(Message)),
	}
}

// Publish records a copy of data under subject.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Copy so callers may reuse their buffer
	msg := Message{Subject: subject, Data: append([]byte(nil), data...)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("memory queue is closed")
	}
	if len(q.messages[subject]) >= q.capacity {
		q.mu.Unlock()
		return fmt.Errorf("queue full for subject: %s", subject)
	}
	q.messages[subject] = append(q.messages[subject], msg)
	handlers := append([]func(Message){}, q.handlers[subject]...)
	q.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
	return nil
}

// PublishBatch publishes multiple messages
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []Message) (int, error) {
	successCount := 0
	var lastErr error

	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			lastErr = err
			continue
		}
		successCount++
	}

	if lastErr != nil && successCount == 0 {
		return 0, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// OnMessage registers h for every later message published to subject.
// Handlers run synchronously on the publishing goroutine.
func (q *MemoryQueue) OnMessage(subject string, h func(Message)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[subject] = append(q.handlers[subject], h)
}

// Messages returns the messages published to subject so far.
func (q *MemoryQueue) Messages(subject string) []Message {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]Message(nil), q.messages[subject]...)
}

// Subjects returns the number of messages per subject.
func (q *MemoryQueue) Subjects() map[string]int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	counts := make(map[string]int, len(q.messages))
	for subject, msgs := range q.messages {
		counts[subject] = len(msgs)
	}
	return counts
}

// Close drops retained messages and rejects further publishes.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.messages = make(map[string][]Message)
	q.handlers = make(map[string][]func(Message))
	return nil
}
