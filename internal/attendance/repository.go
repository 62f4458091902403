package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/uptrace/bun"
)

type Repository interface {
	Mark(ctx context.Context, studentID int, date, status string) (*Record, error)
	ListByDate(ctx context.Context, date string) ([]Record, error)
	ListForStudent(ctx context.Context, studentID, limit int) ([]Record, error)
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

// Mark records a status for student+date, updating the existing row when the
// day was already marked.
func (r *repository) Mark(ctx context.Context, studentID int, date, status string) (*Record, error) {
	start := time.Now()

	exists, err := r.db.NewSelect().
		Model((*student.Student)(nil)).
		Where("id = ?", studentID).
		Exists(ctx)
	if err != nil {
		r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)
		return nil, err
	}
	if !exists {
		return nil, student.ErrStudentNotFound
	}

	record := new(Record)
	err = r.db.NewSelect().
		Model(record).
		Where("student_id = ?", studentID).
		Where("date = ?", date).
		Scan(ctx)
	switch {
	case err == nil:
		record.Status = status
		_, err = r.db.NewUpdate().
			Model(record).
			Column("status").
			WherePK().
			Exec(ctx)
		r.metrics.Database.RecordQuery(ctx, "update", "attendance", time.Since(start), err)
	case errors.Is(err, sql.ErrNoRows):
		record = &Record{
			StudentID: studentID,
			Date:      date,
			Status:    status,
		}
		_, err = r.db.NewInsert().
			Model(record).
			Returning("*").
			Exec(ctx)
		r.metrics.Database.RecordQuery(ctx, "insert", "attendance", time.Since(start), err)
	default:
		r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)
	}

	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) ListByDate(ctx context.Context, date string) ([]Record, error) {
	start := time.Now()
	var records []Record
	err := r.db.NewSelect().
		Model(&records).
		Where("date = ?", date).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return records, err
}

func (r *repository) ListForStudent(ctx context.Context, studentID, limit int) ([]Record, error) {
	start := time.Now()
	var records []Record
	q := r.db.NewSelect().
		Model(&records).
		Where("student_id = ?", studentID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return records, err
}
