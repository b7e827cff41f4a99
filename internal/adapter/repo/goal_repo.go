package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, coalesce(color, ''), created_at, updated_at`

// GoalRepositoryPG implements domain.GoalRepository.
type GoalRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepositoryPG.
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepositoryPG {
	return &GoalRepositoryPG{pool: pool}
}

// List returns the user's goals, newest first.
func (r *GoalRepositoryPG) List(ctx context.Context, userID string) ([]domain.Goal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// Get fetches one goal owned by the user.
func (r *GoalRepositoryPG) Get(ctx context.Context, userID, id string) (*domain.Goal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	return scanGoal(row)
}

// Create inserts a new goal.
func (r *GoalRepositoryPG) Create(ctx context.Context, g *domain.Goal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO goals (id, user_id, name, target_amount, current_amount, color, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING `+goalColumns+`;
`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Color)
	stored, err := scanGoal(row)
	if err != nil {
		return err
	}
	*g = *stored
	return nil
}

// Update rewrites a goal owned by the user.
func (r *GoalRepositoryPG) Update(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE goals
SET name = $3, target_amount = $4, current_amount = $5, color = $6, updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING `+goalColumns+`;
`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Color)
	return scanGoal(row)
}

// Delete removes a goal owned by the user.
func (r *GoalRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var g domain.Goal
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Color, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
