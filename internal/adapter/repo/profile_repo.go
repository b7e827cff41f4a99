package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// ProfileRepositoryPG implements domain.ProfileRepository backed by PostgreSQL.
type ProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepositoryPG.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{pool: pool}
}

const profileColumns = `id, email, name, coalesce(subscription_status, ''), created_at, updated_at`

// Get fetches the caller's own profile.
func (r *ProfileRepositoryPG) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID)
	return scanProfile(row)
}

// UpdateName updates the display name of the caller's own profile.
func (r *ProfileRepositoryPG) UpdateName(ctx context.Context, userID, name string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE profiles
SET name = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+profileColumns+`;
`, userID, name)
	return scanProfile(row)
}

// AdminProfileRepositoryPG implements domain.AdminProfileRepository. It is
// wired only into webhook handlers and provisioning, never into handlers
// driven directly by end-user input.
type AdminProfileRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAdminProfileRepository creates a new AdminProfileRepositoryPG.
func NewAdminProfileRepository(pool *pgxpool.Pool) *AdminProfileRepositoryPG {
	return &AdminProfileRepositoryPG{pool: pool}
}

// FindByEmail fetches a profile by email, case-insensitively.
func (r *AdminProfileRepositoryPG) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(email) = $1`, strings.ToLower(email))
	return scanProfile(row)
}

// Upsert inserts or updates a profile keyed on its identity id.
func (r *AdminProfileRepositoryPG) Upsert(ctx context.Context, p *domain.Profile) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO profiles (id, email, name, subscription_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE profiles.name END,
    subscription_status = EXCLUDED.subscription_status,
    updated_at = NOW();
`, p.ID, p.Email, p.Name, p.SubscriptionStatus)
	return err
}

// SetSubscriptionStatus writes the denormalized CRM flag.
func (r *AdminProfileRepositoryPG) SetSubscriptionStatus(ctx context.Context, userID, status string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE profiles SET subscription_status = $2, updated_at = NOW() WHERE id = $1;
`, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.SubscriptionStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
