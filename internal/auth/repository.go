package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) *Repository {
	return &Repository{
		db:      db,
		metrics: m,
	}
}

func (r *Repository) CreateProfile(ctx context.Context, profile *Profile) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(profile).Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", "profiles", time.Since(start), err)
	return err
}

func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	start := time.Now()
	profile := new(Profile)
	err := r.db.NewSelect().Model(profile).Where("email = ?", email).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", "profiles", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *Repository) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	start := time.Now()
	profile := new(Profile)
	err := r.db.NewSelect().Model(profile).Where("id = ?", id).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", "profiles", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// CreateRefreshToken stores a new refresh token.
func (r *Repository) CreateRefreshToken(ctx context.Context, profileID, token string, expiresAt time.Time) error {
	start := time.Now()
	refreshToken := &RefreshToken{
		ProfileID: profileID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	_, err := r.db.NewInsert().Model(refreshToken).Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", "refresh_tokens", time.Since(start), err)
	return err
}

// GetRefreshToken retrieves a refresh token that has not expired yet.
func (r *Repository) GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	start := time.Now()
	refreshToken := &RefreshToken{}
	err := r.db.NewSelect().
		Model(refreshToken).
		Where("token = ?", token).
		Where("expires_at > ?", time.Now()).
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", "refresh_tokens", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return refreshToken, nil
}

// DeleteRefreshToken removes a refresh token (for logout).
func (r *Repository) DeleteRefreshToken(ctx context.Context, token string) error {
	start := time.Now()
	_, err := r.db.NewDelete().
		Model((*RefreshToken)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", "refresh_tokens", time.Since(start), err)
	return err
}

// DeleteAllProfileTokens removes every refresh token of a profile.
func (r *Repository) DeleteAllProfileTokens(ctx context.Context, profileID string) error {
	start := time.Now()
	_, err := r.db.NewDelete().
		Model((*RefreshToken)(nil)).
		Where("profile_id = ?", profileID).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", "refresh_tokens", time.Since(start), err)
	return err
}
