package attendance

import (
	"context"
	"errors"
	"math"
)

var ErrInvalidStatus = errors.New("status must be Present or Absent")

type Service interface {
	Mark(ctx context.Context, studentID int, date, status string) (*Record, error)
	ListByDate(ctx context.Context, date string) ([]Record, error)
	History(ctx context.Context, studentID, limit int) ([]Record, error)
	SummaryForStudent(ctx context.Context, studentID int) (*Summary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Mark(ctx context.Context, studentID int, date, status string) (*Record, error) {
	if status != StatusPresent && status != StatusAbsent {
		return nil, ErrInvalidStatus
	}
	return s.repo.Mark(ctx, studentID, date, status)
}

func (s *service) ListByDate(ctx context.Context, date string) ([]Record, error) {
	return s.repo.ListByDate(ctx, date)
}

func (s *service) History(ctx context.Context, studentID, limit int) ([]Record, error) {
	return s.repo.ListForStudent(ctx, studentID, limit)
}

// SummaryForStudent aggregates the full history into the percentage shown on
// the parent dashboard. An empty history yields zero percent.
func (s *service) SummaryForStudent(ctx context.Context, studentID int) (*Summary, error) {
	records, err := s.repo.ListForStudent(ctx, studentID, 0)
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

// Summarize computes attendance counts and percentage over records.
func Summarize(records []Record) *Summary {
	summary := &Summary{TotalDays: len(records)}
	for _, rec := range records {
		if rec.Status == StatusPresent {
			summary.PresentDays++
		} else {
			summary.AbsentDays++
		}
	}
	if summary.TotalDays > 0 {
		pct := float64(summary.PresentDays) / float64(summary.TotalDays) * 100
		summary.Percentage = math.Round(pct*10) / 10
	}
	return summary
}
