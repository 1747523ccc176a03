package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/costwatch/costwatch/internal/analysis"
	"github.com/costwatch/costwatch/internal/analytics/anomaly"
	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/costwatch/costwatch/internal/metrics"
	"github.com/costwatch/costwatch/internal/queue"
)

// Alert event types, appended to the subject prefix.
const (
	EventAnalysisCompleted = "analysis.completed"
	EventAnomalyDetected   = "anomaly.detected"
)

// AlertEvent is the JSON body of every published alert.
type AlertEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	RunID      string            `json:"run_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Period     analysis.Period   `json:"analysis_period"`
	Summary    *analysis.Summary `json:"summary,omitempty"`
	Anomaly    *anomaly.Anomaly  `json:"anomaly,omitempty"`
}

// AlertPublisher turns completed analyses into alert events.
// Publish failures are logged and counted, never returned.
type AlertPublisher struct {
	publisher   queue.Publisher
	prefix      string
	minSeverity int
	logger      *logging.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewAlertPublisher creates an AlertPublisher over p.
func NewAlertPublisher(p queue.Publisher, cfg config.AlertsConfig, logger *logging.Logger, m *metrics.Metrics) *AlertPublisher {
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "costwatch"
	}
	minSeverity := cfg.MinSeverity
	if minSeverity < anomaly.MinSeverity {
		minSeverity = anomaly.MinSeverity
	}
	return &AlertPublisher{
		publisher:   p,
		prefix:      prefix,
		minSeverity: minSeverity,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// Subject returns the full subject an event type is published on.
func (a *AlertPublisher) Subject(event string) string {
	return a.prefix + "." + event
}

// PublishAnalysis publishes one analysis.completed event and one
// anomaly.detected event per anomaly at or above the minimum severity.
// It returns the number of events published.
func (a *AlertPublisher) PublishAnalysis(ctx context.Context, r *analysis.Result) int {
	summary := r.Summary
	events := []AlertEvent{a.event(EventAnalysisCompleted, r)}
	events[0].Summary = &summary

	for i := range r.Anomalies {
		if r.Anomalies[i].Severity < a.minSeverity {
			continue
		}
		ev := a.event(EventAnomalyDetected, r)
		an := r.Anomalies[i]
		ev.Anomaly = &an
		events = append(events, ev)
	}

	log := a.logger.WithContext(ctx)
	messages := make([]queue.Message, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Warn("Failed to encode alert", "event", ev.Type, "error", err)
			continue
		}
		messages = append(messages, queue.Message{Subject: a.Subject(ev.Type), Data: data})
	}

	published, err := a.publisher.PublishBatch(ctx, messages)
	if err != nil || published < len(messages) {
		fields := []interface{}{"attempted", len(messages), "published", published}
		if err != nil {
			fields = append(fields, "error", err)
		}
		log.Warn("Failed to publish alert", fields...)
	}
	a.metrics.AlertsSent(published, len(events)-published)
	return published
}

func (a *AlertPublisher) event(eventType string, r *analysis.Result) AlertEvent {
	return AlertEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		RunID:      r.RunID,
		OccurredAt: a.now().UTC(),
		Period:     r.AnalysisPeriod,
	}
}

// Close closes the underlying publisher.
func (a *AlertPublisher) Close() error {
	return a.publisher.Close()
}
