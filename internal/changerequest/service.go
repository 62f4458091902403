package changerequest

import (
	"context"
	"log/slog"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
)

// historyLimit caps the request history shown to a parent.
const historyLimit = 5

// Notifier publishes review outcomes to the notification channel. Publishing
// is best-effort: a broker failure never fails the review action.
type Notifier interface {
	PublishRequestResolved(ctx context.Context, requestID, studentID int, outcome string) error
}

// Queue is the teacher review view: every request across all students plus
// per-status counts.
type Queue struct {
	Requests []QueueEntry `json:"requests"`
	Summary  Summary      `json:"summary"`
}

type Service interface {
	// Submit runs the parent submission flow: cooldown check, delta
	// computation, request creation. Returns the refreshed history.
	Submit(ctx context.Context, studentID int, form SubmissionForm) ([]Request, error)
	History(ctx context.Context, studentID int) ([]Request, error)
	ReviewQueue(ctx context.Context) (*Queue, error)
	Approve(ctx context.Context, requestID int, approvedBy string, notes string) error
	Reject(ctx context.Context, requestID int, approvedBy string, notes string) error
}

type service struct {
	repo     Repository
	students student.Repository
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(repo Repository, students student.Repository, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		students: students,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

func (s *service) Submit(ctx context.Context, studentID int, form SubmissionForm) ([]Request, error) {
	current, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListForStudent(ctx, studentID, 0)
	if err != nil {
		return nil, err
	}

	if remaining := CooldownRemaining(history, time.Now()); remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	for _, req := range history {
		if req.Status == StatusPending {
			return nil, ErrPendingExists
		}
	}

	delta := ComputeDelta(current, form)
	if delta.IsEmpty() {
		return nil, ErrNoChanges
	}

	request := &Request{
		StudentID:   studentID,
		ParentName:  delta.ParentName,
		ParentEmail: delta.ParentEmail,
		ParentPhone: delta.ParentPhone,
		NewPassword: delta.NewPassword,
	}
	if _, err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.metrics.Portal.RecordChangeRequestCreated(ctx)
	s.logger.InfoContext(ctx, "profile change request submitted",
		"student_id", studentID, "request_id", request.ID)

	return s.History(ctx, studentID)
}

func (s *service) History(ctx context.Context, studentID int) ([]Request, error) {
	return s.repo.ListForStudent(ctx, studentID, historyLimit)
}

func (s *service) ReviewQueue(ctx context.Context) (*Queue, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	queue := &Queue{Requests: entries}
	for _, e := range entries {
		switch e.Status {
		case StatusPending:
			queue.Summary.Pending++
		case StatusApproved:
			queue.Summary.Approved++
		case StatusRejected:
			queue.Summary.Rejected++
		}
	}
	return queue, nil
}

// Approve moves a pending request to approved and propagates the accepted
// fields onto the student record. The transition and the student patch are
// one atomic unit: if either fails the request stays pending.
//
// A proposed parent name is accepted and kept on the request, but the student
// record has no parent name column, so it is never propagated. This matches
// the portal the schema was migrated from.
func (s *service) Approve(ctx context.Context, requestID int, approvedBy string, notes string) error {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return ErrAlreadyProcessed
	}

	patch := student.Patch{
		ParentEmail:    request.ParentEmail,
		ParentPhone:    request.ParentPhone,
		ParentPassword: request.NewPassword,
	}

	if err := s.repo.Transition(ctx, requestID, StatusApproved, approvedBy, optional(notes), patch); err != nil {
		return err
	}

	s.metrics.Portal.RecordChangeRequestResolved(ctx, StatusApproved)
	s.logger.InfoContext(ctx, "profile change request approved",
		"request_id", requestID, "student_id", request.StudentID, "approved_by", approvedBy)

	s.publishResolved(ctx, requestID, request.StudentID, StatusApproved)
	return nil
}

// Reject moves a pending request to rejected. The student record is never
// touched.
func (s *service) Reject(ctx context.Context, requestID int, approvedBy string, notes string) error {
	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return ErrAlreadyProcessed
	}

	if err := s.repo.Transition(ctx, requestID, StatusRejected, approvedBy, optional(notes), student.Patch{}); err != nil {
		return err
	}

	s.metrics.Portal.RecordChangeRequestResolved(ctx, StatusRejected)
	s.logger.InfoContext(ctx, "profile change request rejected",
		"request_id", requestID, "student_id", request.StudentID, "approved_by", approvedBy)

	s.publishResolved(ctx, requestID, request.StudentID, StatusRejected)
	return nil
}

func (s *service) publishResolved(ctx context.Context, requestID, studentID int, outcome string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishRequestResolved(ctx, requestID, studentID, outcome); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review outcome",
			"request_id", requestID, "error", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
