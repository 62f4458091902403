package changerequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/uptrace/bun"
)

type Repository interface {
	ListForStudent(ctx context.Context, studentID, limit int) ([]Request, error)
	ListAll(ctx context.Context) ([]QueueEntry, error)
	Create(ctx context.Context, request *Request) (*Request, error)
	GetByID(ctx context.Context, id int) (*Request, error)
	// Transition moves a pending request to a terminal status and, on
	// approval, applies the student patch in the same transaction. The status
	// update is conditional on the request still being pending, so concurrent
	// transitions resolve to exactly one winner.
	Transition(ctx context.Context, id int, newStatus string, approvedBy string, notes *string, patch student.Patch) error
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

func (r *repository) ListForStudent(ctx context.Context, studentID, limit int) ([]Request, error) {
	start := time.Now()
	var requests []Request
	q := r.db.NewSelect().
		Model(&requests).
		Where("student_id = ?", studentID).
		Order("requested_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "profile_change_requests", time.Since(start), err)

	return requests, err
}

func (r *repository) ListAll(ctx context.Context) ([]QueueEntry, error) {
	start := time.Now()
	var entries []QueueEntry
	err := r.db.NewSelect().
		Model(&entries).
		ColumnExpr("pcr.*").
		ColumnExpr("s.name AS student_name").
		ColumnExpr("s.class AS student_class").
		ColumnExpr("s.parent_email AS current_email").
		Join("JOIN students AS s ON s.id = pcr.student_id").
		OrderExpr("pcr.requested_at DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "profile_change_requests", time.Since(start), err)

	return entries, err
}

// Create inserts a pending request. The referenced student must exist: the
// schema carries no formal foreign key (kept compatible with the hosted
// original), so existence is checked here.
func (r *repository) Create(ctx context.Context, request *Request) (*Request, error) {
	start := time.Now()

	exists, err := r.db.NewSelect().
		Model((*student.Student)(nil)).
		Where("id = ?", request.StudentID).
		Exists(ctx)
	if err != nil {
		r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)
		return nil, err
	}
	if !exists {
		return nil, student.ErrStudentNotFound
	}

	request.Status = StatusPending
	request.ApprovedAt = nil
	request.ApprovedBy = nil
	request.Notes = nil

	_, err = r.db.NewInsert().
		Model(request).
		ExcludeColumn("requested_at"). // server-assigned
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "profile_change_requests", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Request, error) {
	start := time.Now()
	request := new(Request)
	err := r.db.NewSelect().Model(request).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "profile_change_requests", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (r *repository) Transition(ctx context.Context, id int, newStatus string, approvedBy string, notes *string, patch student.Patch) error {
	start := time.Now()

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*Request)(nil)).
			Set("status = ?", newStatus).
			Set("approved_at = ?", time.Now().UTC()).
			Set("approved_by = ?", approvedBy).
			Set("notes = ?", notes).
			Where("id = ?", id).
			Where("status = ?", StatusPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			// Either the id is unknown or another teacher got there first.
			exists, err := tx.NewSelect().Model((*Request)(nil)).Where("id = ?", id).Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return ErrRequestNotFound
			}
			return ErrAlreadyProcessed
		}

		if patch.IsEmpty() {
			return nil
		}

		q := tx.NewUpdate().Model((*student.Student)(nil))
		for col, val := range patch.Columns() {
			q = q.Set("? = ?", bun.Ident(col), val)
		}
		result, err = q.
			Where("id = (SELECT student_id FROM profile_change_requests WHERE id = ?)", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			// Student row gone: roll the transition back so the request stays
			// pending and the action can be retried.
			return fmt.Errorf("apply student patch: %w", student.ErrStudentNotFound)
		}
		return nil
	})

	r.metrics.Database.RecordQuery(ctx, "update", "profile_change_requests", time.Since(start), err)

	return err
}
