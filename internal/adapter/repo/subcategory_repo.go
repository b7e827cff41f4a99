package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const subcategoryColumns = `id, user_id, category_id, name, coalesce(counterparty_name, ''), coalesce(counterparty_document, ''), coalesce(counterparty_contact, ''), created_at`

// SubcategoryRepositoryPG implements domain.SubcategoryRepository.
type SubcategoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSubcategoryRepository creates a new SubcategoryRepositoryPG.
func NewSubcategoryRepository(pool *pgxpool.Pool) *SubcategoryRepositoryPG {
	return &SubcategoryRepositoryPG{pool: pool}
}

// List returns the user's subcategories ordered by name.
func (r *SubcategoryRepositoryPG) List(ctx context.Context, userID string) ([]domain.Subcategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Subcategory
	for rows.Next() {
		var s domain.Subcategory
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Name, &s.CounterpartyName, &s.CounterpartyDocument, &s.CounterpartyContact, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Get fetches one subcategory owned by the user.
func (r *SubcategoryRepositoryPG) Get(ctx context.Context, userID, id string) (*domain.Subcategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1 AND user_id = $2`, id, userID)
	return scanSubcategory(row)
}

// Create inserts a new subcategory. The category must belong to the same user.
func (r *SubcategoryRepositoryPG) Create(ctx context.Context, s *domain.Subcategory) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO subcategories (id, user_id, category_id, name, counterparty_name, counterparty_document, counterparty_contact, created_at)
SELECT $1, $2, $3, $4, $5, $6, $7, NOW()
WHERE EXISTS (SELECT 1 FROM categories WHERE id = $3 AND user_id = $2)
RETURNING `+subcategoryColumns+`;
`, s.ID, s.UserID, s.CategoryID, s.Name, s.CounterpartyName, s.CounterpartyDocument, s.CounterpartyContact)
	stored, err := scanSubcategory(row)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// Update rewrites the mutable fields of a subcategory owned by the user.
func (r *SubcategoryRepositoryPG) Update(ctx context.Context, s *domain.Subcategory) (*domain.Subcategory, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE subcategories
SET name = $3, counterparty_name = $4, counterparty_document = $5, counterparty_contact = $6
WHERE id = $1 AND user_id = $2
RETURNING `+subcategoryColumns+`;
`, s.ID, s.UserID, s.Name, s.CounterpartyName, s.CounterpartyDocument, s.CounterpartyContact)
	return scanSubcategory(row)
}

// Delete removes a subcategory owned by the user.
func (r *SubcategoryRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subcategories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSubcategory(row pgx.Row) (*domain.Subcategory, error) {
	var s domain.Subcategory
	if err := row.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Name, &s.CounterpartyName, &s.CounterpartyDocument, &s.CounterpartyContact, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
