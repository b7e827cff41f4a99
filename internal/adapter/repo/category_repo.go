package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const categoryColumns = `id, user_id, name, type, coalesce(icon, ''), coalesce(color, ''), created_at`

// CategoryRepositoryPG implements domain.CategoryRepository.
type CategoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepositoryPG.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepositoryPG {
	return &CategoryRepositoryPG{pool: pool}
}

// List returns the user's categories ordered by type then name.
func (r *CategoryRepositoryPG) List(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY type, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Get fetches one category owned by the user.
func (r *CategoryRepositoryPG) Get(ctx context.Context, userID, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	return scanCategory(row)
}

// Create inserts a new category.
func (r *CategoryRepositoryPG) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO categories (id, user_id, name, type, icon, color, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING `+categoryColumns+`;
`, c.ID, c.UserID, c.Name, c.Type, c.Icon, c.Color)
	stored, err := scanCategory(row)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// Update rewrites the mutable fields of a category owned by the user.
func (r *CategoryRepositoryPG) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE categories
SET name = $3, icon = $4, color = $5
WHERE id = $1 AND user_id = $2
RETURNING `+categoryColumns+`;
`, c.ID, c.UserID, c.Name, c.Icon, c.Color)
	return scanCategory(row)
}

// Delete removes a category owned by the user.
func (r *CategoryRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsByName matches case-insensitively within (user, type).
func (r *CategoryRepositoryPG) ExistsByName(ctx context.Context, userID string, t domain.CategoryType, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM categories WHERE user_id = $1 AND type = $2 AND lower(name) = $3
);
`, userID, t, strings.ToLower(name)).Scan(&exists)
	return exists, err
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
