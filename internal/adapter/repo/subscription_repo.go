package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const subscriptionColumns = `id, user_id, status, provider, external_id, current_period_start, current_period_end, created_at, updated_at`

// SubscriptionRepositoryPG implements domain.SubscriptionRepository.
type SubscriptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepositoryPG.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepositoryPG {
	return &SubscriptionRepositoryPG{pool: pool}
}

// LatestActive returns the newest active record for the user.
func (r *SubscriptionRepositoryPG) LatestActive(ctx context.Context, userID string) (*domain.Subscription, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+subscriptionColumns+`
FROM subscriptions
WHERE user_id = $1 AND status = $2
ORDER BY created_at DESC
LIMIT 1;
`, userID, domain.SubscriptionActive)
	return scanSubscription(row)
}

// AdminSubscriptionRepositoryPG implements domain.AdminSubscriptionRepository
// for webhook handlers and the reconciliation job.
type AdminSubscriptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAdminSubscriptionRepository creates a new AdminSubscriptionRepositoryPG.
func NewAdminSubscriptionRepository(pool *pgxpool.Pool) *AdminSubscriptionRepositoryPG {
	return &AdminSubscriptionRepositoryPG{pool: pool}
}

// UpsertByExternalID inserts or updates the record keyed on (provider,
// external id). Redelivered events land on the same row, which makes the
// webhook handlers idempotent.
func (r *AdminSubscriptionRepositoryPG) UpsertByExternalID(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO subscriptions (id, user_id, status, provider, external_id, current_period_start, current_period_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
ON CONFLICT (provider, external_id) DO UPDATE
SET user_id = EXCLUDED.user_id,
    status = EXCLUDED.status,
    current_period_start = EXCLUDED.current_period_start,
    current_period_end = EXCLUDED.current_period_end,
    updated_at = NOW()
RETURNING `+subscriptionColumns+`;
`, sub.ID, sub.UserID, sub.Status, sub.Provider, sub.ExternalID, sub.CurrentPeriodStart, sub.CurrentPeriodEnd)
	return scanSubscription(row)
}

// UpdateStatusByExternalID sets the status of a matching record.
func (r *AdminSubscriptionRepositoryPG) UpdateStatusByExternalID(ctx context.Context, provider domain.SubscriptionProvider, externalID string, status domain.SubscriptionStatus) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE subscriptions SET status = $3, updated_at = NOW()
WHERE provider = $1 AND external_id = $2;
`, provider, externalID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExpireLapsed marks active records with a lapsed period end as inactive.
func (r *AdminSubscriptionRepositoryPG) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE subscriptions SET status = $2, updated_at = NOW()
WHERE status = $1 AND current_period_end IS NOT NULL AND current_period_end < $3;
`, domain.SubscriptionActive, domain.SubscriptionInactive, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	if err := row.Scan(&s.ID, &s.UserID, &s.Status, &s.Provider, &s.ExternalID, &s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
