package fee

import (
	"context"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	ListForStudent(ctx context.Context, studentID int) ([]Payment, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	start := time.Now()

	exists, err := r.db.NewSelect().
		Model((*student.Student)(nil)).
		Where("id = ?", payment.StudentID).
		Exists(ctx)
	if err != nil {
		r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)
		return nil, err
	}
	if !exists {
		return nil, student.ErrStudentNotFound
	}

	_, err = r.db.NewInsert().Model(payment).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "fee_payments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) ListForStudent(ctx context.Context, studentID int) ([]Payment, error) {
	start := time.Now()
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("student_id = ?", studentID).
		Order("payment_date DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "fee_payments", time.Since(start), err)

	return payments, err
}
