package fee

import (
	"context"
	"errors"

	"github.com/mikelabs-llc/schoolgate-pass/internal/term"
)

type Service interface {
	RecordPayment(ctx context.Context, payment *Payment) (*Payment, error)
	StatementForStudent(ctx context.Context, studentID int) (*Statement, error)
}

type service struct {
	repo  Repository
	terms term.Repository
}

func NewService(repo Repository, terms term.Repository) Service {
	return &service{
		repo:  repo,
		terms: terms,
	}
}

func (s *service) RecordPayment(ctx context.Context, payment *Payment) (*Payment, error) {
	return s.repo.Create(ctx, payment)
}

// StatementForStudent returns the payment history plus totals. The balance is
// computed against the active term's fee; with no active term only the total
// is meaningful.
func (s *service) StatementForStudent(ctx context.Context, studentID int) (*Statement, error) {
	payments, err := s.repo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	statement := &Statement{Payments: payments}
	for _, p := range payments {
		statement.TotalPaid += p.Amount
	}

	activeTerm, err := s.terms.GetActive(ctx)
	switch {
	case err == nil:
		statement.TermFee = activeTerm.FeeAmount
		statement.Balance = activeTerm.FeeAmount - statement.TotalPaid
	case errors.Is(err, term.ErrTermNotFound):
		// no active term; balance stays zero
	default:
		return nil, err
	}

	return statement, nil
}
