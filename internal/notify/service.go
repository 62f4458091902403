package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
)

// Event is the envelope published for every portal notification.
type Event struct {
	Type       string    `json:"type"`
	RequestID  int       `json:"request_id,omitempty"`
	StudentID  int       `json:"student_id"`
	Outcome    string    `json:"outcome,omitempty"`
	ChildUID   string    `json:"child_uid,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Service struct {
	producer Producer
	metrics  *metrics.PortalMetrics
	logger   *slog.Logger
}

func NewService(producer Producer, metrics *metrics.PortalMetrics, logger *slog.Logger) *Service {
	return &Service{
		producer: producer,
		metrics:  metrics,
		logger:   logger,
	}
}

// PublishRequestResolved emits a request.approved or request.rejected event
// after a change request reaches a terminal state.
func (s *Service) PublishRequestResolved(ctx context.Context, requestID, studentID int, outcome string) error {
	event := Event{
		Type:       "request." + outcome,
		RequestID:  requestID,
		StudentID:  studentID,
		Outcome:    outcome,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, event); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}

	s.metrics.RecordNotificationPublished(ctx, event.Type)
	return nil
}

// PublishCredentialsIssued emits an event when a student's parent credentials
// are generated or regenerated.
func (s *Service) PublishCredentialsIssued(ctx context.Context, studentID int, childUID string) error {
	event := Event{
		Type:       "credentials.issued",
		StudentID:  studentID,
		ChildUID:   childUID,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, event); err != nil {
		return fmt.Errorf("publishing credentials.issued event: %w", err)
	}

	s.metrics.RecordNotificationPublished(ctx, event.Type)
	return nil
}

func (s *Service) Close() error {
	return s.producer.Close()
}
