package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/config"
)

const AssessmentEventsTopic = "assessment-events"

// Run lifecycle event types.
const (
	EventRunStarted   = "run_started"
	EventRunCompleted = "run_completed"
	EventRunFailed    = "run_failed"
)

// RunEvent announces assessment run transitions to downstream consumers.
type RunEvent struct {
	RunID          uuid.UUID `json:"run_id"`
	BrandName      string    `json:"brand_name"`
	Event          string    `json:"event"`
	VideosAssessed int       `json:"videos_assessed,omitempty"`
	VideosSkipped  int       `json:"videos_skipped,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher writes run events to Kafka. A nil publisher is safe to call
// so the pipeline can run with eventing disabled.
type EventPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewEventPublisher(cfg *config.Config, logger *logrus.Logger) *EventPublisher {
	topic := cfg.Kafka.Topics.AssessmentEvents
	if topic == "" {
		topic = AssessmentEventsTopic
	}
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // Key by brand so one brand's events stay ordered
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event RunEvent) error {
	if p == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.BrandName),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(event.RunID.String())},
			{Key: "event", Value: []byte(event.Event)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"run_id": event.RunID,
			"event":  event.Event,
		}).Error("Failed to publish run event")
		return fmt.Errorf("failed to write run event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"run_id": event.RunID,
		"brand":  event.BrandName,
		"event":  event.Event,
		"topic":  p.writer.Topic,
	}).Info("Run event published")

	return nil
}

func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close event publisher: %w", err)
	}
	return nil
}
