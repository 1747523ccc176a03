package queue

import (
	"context"
	"testing"
	"time"
)

func TestNewKafkaQueue_NoBrokers(t *testing.T) {
	if _, err := NewKafkaQueue(KafkaConfig{}); err == nil {
		t.Fatal("Expected error without brokers")
	}
}

func TestNewKafkaQueue_Defaults(t *testing.T) {
	q, err := NewKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("NewKafkaQueue failed: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.config.BatchSize != 100 || q.config.MaxRetries != 3 {
		t.Errorf("Unexpected defaults: %+v", q.config)
	}
	if len(q.Topics()) != 0 {
		t.Error("Writers should be created lazily")
	}
}

func TestKafkaQueue_PublishUnreachable(t *testing.T) {
	q, err := NewKafkaQueue(KafkaConfig{Brokers: []string{"127.0.0.1:1"}, MaxRetries: 1})
	if err != nil {
		t.Fatalf("NewKafkaQueue failed: %v", err)
	}
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := q.Publish(ctx, "costwatch.analysis.completed", []byte("x")); err == nil {
		t.Error("Expected error publishing to unreachable broker")
	}
	if topics := q.Topics(); len(topics) != 1 || topics[0] != "costwatch.analysis.completed" {
		t.Errorf("Unexpected topics: %v", topics)
	}

	if n, err := q.PublishBatch(ctx, nil); n != 0 || err != nil {
		t.Errorf("Empty batch: n=%d err=%v", n, err)
	}
}
