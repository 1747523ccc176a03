package queue

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// setupTestNATS creates an embedded NATS server for testing
func setupTestNATS(t *testing.T) (string, func()) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	cleanup := func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return ns.ClientURL(), cleanup
}

func TestNATSQueue_CreatesStream(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(NATSConfig{URL: url, SubjectPrefix: "costwatch"})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.Stream() != "COSTWATCH_ALERTS" {
		t.Errorf("Expected stream COSTWATCH_ALERTS, got %s", q.Stream())
	}

	info, err := q.js.StreamInfo(q.Stream())
	if err != nil {
		t.Fatalf("StreamInfo failed: %v", err)
	}
	if len(info.Config.Subjects) != 1 || info.Config.Subjects[0] != "costwatch.>" {
		t.Errorf("Unexpected stream subjects: %v", info.Config.Subjects)
	}

	// A second queue reuses the existing stream
	q2, err := NewNATSQueue(NATSConfig{URL: url, SubjectPrefix: "costwatch"})
	if err != nil {
		t.Fatalf("Second queue failed: %v", err)
	}
	_ = q2.Close()
}

func TestNATSQueue_PublishPersists(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := q.Publish(ctx, "costwatch.analysis.completed", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	n, err := q.PublishBatch(ctx, []Message{
		{Subject: "costwatch.anomaly.detected", Data: []byte(`{"n":2}`)},
		{Subject: "costwatch.anomaly.detected", Data: []byte(`{"n":3}`)},
	})
	if err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 published, got %d", n)
	}

	info, err := q.js.StreamInfo(q.Stream())
	if err != nil {
		t.Fatalf("StreamInfo failed: %v", err)
	}
	if info.State.Msgs != 3 {
		t.Errorf("Expected 3 stored messages, got %d", info.State.Msgs)
	}

	sub, err := q.js.SubscribeSync("costwatch.analysis.completed", nats.DeliverAll())
	if err != nil {
		t.Fatalf("SubscribeSync failed: %v", err)
	}
	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg failed: %v", err)
	}
	if string(msg.Data) != `{"n":1}` {
		t.Errorf("Unexpected payload: %s", msg.Data)
	}
}

func TestNATSQueue_PublishOutsideStream(t *testing.T) {
	url, cleanup := setupTestNATS(t)
	defer cleanup()

	q, err := NewNATSQueue(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := q.Publish(ctx, "elsewhere.event", []byte("x")); err == nil {
		t.Error("Expected error publishing to a subject no stream captures")
	}
}

func TestNATSQueue_InvalidURL(t *testing.T) {
	q, err := NewNATSQueue(NATSConfig{URL: "nats://127.0.0.1:1"})
	if err == nil {
		_ = q.Close()
		t.Fatal("Expected error with unreachable server")
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName("cost.watch-1"); got != "cost_watch-1" {
		t.Errorf("Expected cost_watch-1, got %s", got)
	}
}
