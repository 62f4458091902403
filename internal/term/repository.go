package term

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrTermNotFound = errors.New("term not found")

type Repository interface {
	Create(ctx context.Context, term *Term) (*Term, error)
	Update(ctx context.Context, term *Term) error
	List(ctx context.Context) ([]Term, error)
	GetActive(ctx context.Context) (*Term, error)
	// SetActive activates one term and deactivates every other in the same
	// transaction.
	SetActive(ctx context.Context, id int) error
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

func (r *repository) Create(ctx context.Context, term *Term) (*Term, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(term).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "terms", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return term, nil
}

func (r *repository) Update(ctx context.Context, term *Term) error {
	start := time.Now()
	term.UpdatedAt = time.Now().UTC()
	result, err := r.db.NewUpdate().
		Model(term).
		Column("name", "start_date", "end_date", "fee_amount", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "terms", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTermNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]Term, error) {
	start := time.Now()
	var terms []Term
	err := r.db.NewSelect().Model(&terms).Order("start_date DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "terms", time.Since(start), err)

	return terms, err
}

func (r *repository) GetActive(ctx context.Context) (*Term, error) {
	start := time.Now()
	term := new(Term)
	err := r.db.NewSelect().Model(term).Where("is_active = TRUE").Limit(1).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "terms", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTermNotFound
		}
		return nil, err
	}
	return term, nil
}

func (r *repository) SetActive(ctx context.Context, id int) error {
	start := time.Now()

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*Term)(nil)).
			Set("is_active = TRUE").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrTermNotFound
		}

		_, err = tx.NewUpdate().
			Model((*Term)(nil)).
			Set("is_active = FALSE").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id != ?", id).
			Where("is_active = TRUE").
			Exec(ctx)
		return err
	})

	r.metrics.Database.RecordQuery(ctx, "update", "terms", time.Since(start), err)

	return err
}
