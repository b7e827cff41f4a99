package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const budgetConfigColumns = `id, user_id, year, annual_revenue_target, created_at, updated_at`
const budgetPocketColumns = `id, user_id, name, percentage, sort_order, created_at, updated_at`

// BudgetRepositoryPG implements domain.BudgetRepository.
type BudgetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepositoryPG.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepositoryPG {
	return &BudgetRepositoryPG{pool: pool}
}

// GetConfig fetches the user's budget config for a calendar year.
func (r *BudgetRepositoryPG) GetConfig(ctx context.Context, userID string, year int) (*domain.BudgetConfig, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+budgetConfigColumns+` FROM budget_configs WHERE user_id = $1 AND year = $2`, userID, year)
	return scanBudgetConfig(row)
}

// UpsertConfig inserts or updates the config keyed on (user, year).
func (r *BudgetRepositoryPG) UpsertConfig(ctx context.Context, cfg *domain.BudgetConfig) (*domain.BudgetConfig, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO budget_configs (id, user_id, year, annual_revenue_target, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (user_id, year) DO UPDATE
SET annual_revenue_target = EXCLUDED.annual_revenue_target,
    updated_at = NOW()
RETURNING `+budgetConfigColumns+`;
`, cfg.ID, cfg.UserID, cfg.Year, cfg.AnnualRevenueTarget)
	return scanBudgetConfig(row)
}

// ListPockets returns the user's pockets in sort order.
func (r *BudgetRepositoryPG) ListPockets(ctx context.Context, userID string) ([]domain.BudgetPocket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+budgetPocketColumns+` FROM budget_pockets WHERE user_id = $1 ORDER BY sort_order, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPockets(rows)
}

// GetPocket fetches a single pocket owned by the user.
func (r *BudgetRepositoryPG) GetPocket(ctx context.Context, userID, id string) (*domain.BudgetPocket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+budgetPocketColumns+` FROM budget_pockets WHERE id = $1 AND user_id = $2`, id, userID)
	return scanBudgetPocket(row)
}

// CreatePocket inserts a new pocket.
func (r *BudgetRepositoryPG) CreatePocket(ctx context.Context, p *domain.BudgetPocket) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO budget_pockets (id, user_id, name, percentage, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING `+budgetPocketColumns+`;
`, p.ID, p.UserID, p.Name, p.Percentage, p.SortOrder)
	stored, err := scanBudgetPocket(row)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// UpdatePocket rewrites a pocket owned by the user.
func (r *BudgetRepositoryPG) UpdatePocket(ctx context.Context, p *domain.BudgetPocket) (*domain.BudgetPocket, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE budget_pockets
SET name = $3, percentage = $4, sort_order = $5, updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING `+budgetPocketColumns+`;
`, p.ID, p.UserID, p.Name, p.Percentage, p.SortOrder)
	return scanBudgetPocket(row)
}

// DeletePocket removes a pocket owned by the user.
func (r *BudgetRepositoryPG) DeletePocket(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budget_pockets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplacePockets swaps the user's full pocket set in one transaction.
func (r *BudgetRepositoryPG) ReplacePockets(ctx context.Context, userID string, pockets []domain.BudgetPocket) ([]domain.BudgetPocket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM budget_pockets WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}

	out := make([]domain.BudgetPocket, 0, len(pockets))
	for i, p := range pockets {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		row := tx.QueryRow(ctx, `
INSERT INTO budget_pockets (id, user_id, name, percentage, sort_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING `+budgetPocketColumns+`;
`, p.ID, userID, p.Name, p.Percentage, i)
		stored, err := scanBudgetPocket(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func collectPockets(rows pgx.Rows) ([]domain.BudgetPocket, error) {
	var items []domain.BudgetPocket
	for rows.Next() {
		var p domain.BudgetPocket
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Percentage, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanBudgetConfig(row pgx.Row) (*domain.BudgetConfig, error) {
	var c domain.BudgetConfig
	if err := row.Scan(&c.ID, &c.UserID, &c.Year, &c.AnnualRevenueTarget, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanBudgetPocket(row pgx.Row) (*domain.BudgetPocket, error) {
	var p domain.BudgetPocket
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Percentage, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
