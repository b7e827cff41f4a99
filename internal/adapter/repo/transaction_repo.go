package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const transactionColumns = `id, user_id, type, amount, coalesce(category, ''), coalesce(description, ''), date, created_at, updated_at`

// TransactionRepositoryPG implements domain.TransactionRepository.
// Every query filters on user_id; ownership is never inferred from the row id
// alone.
type TransactionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepositoryPG.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepositoryPG {
	return &TransactionRepositoryPG{pool: pool}
}

// List returns one page of the user's transactions plus the total match count.
func (r *TransactionRepositoryPG) List(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.Transaction, int64, error) {
	f.Normalize()

	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, "%"+f.Category+"%")
		where = append(where, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Sort and order come from a whitelist in Normalize, never from raw input.
	query := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s ORDER BY %s %s, created_at DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, cond, f.Sort, strings.ToUpper(f.Order), len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// Get fetches one transaction owned by the user.
func (r *TransactionRepositoryPG) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTransaction(row)
}

// Create inserts a new transaction.
func (r *TransactionRepositoryPG) Create(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO transactions (id, user_id, type, amount, category, description, date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
RETURNING `+transactionColumns+`;
`, t.ID, t.UserID, t.Type, t.Amount, t.Category, t.Description, t.Date)
	stored, err := scanTransaction(row)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// Update applies a sparse patch to a transaction owned by the user.
func (r *TransactionRepositoryPG) Update(ctx context.Context, userID, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{id, userID}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}

	query := fmt.Sprintf(
		`UPDATE transactions SET %s WHERE id = $1 AND user_id = $2 RETURNING %s`,
		strings.Join(set, ", "), transactionColumns,
	)
	return scanTransaction(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a transaction owned by the user. Deletion is physical.
func (r *TransactionRepositoryPG) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCategoryName counts the user's transactions referencing a category label.
func (r *TransactionRepositoryPG) CountByCategoryName(ctx context.Context, userID, name string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category = $2`, userID, name).Scan(&n)
	return n, err
}

// MonthlyTotals sums income and expense amounts for the calendar month.
func (r *TransactionRepositoryPG) MonthlyTotals(ctx context.Context, userID string, year int, month time.Month) (float64, float64, error) {
	var income, expense float64
	err := r.pool.QueryRow(ctx, `
SELECT
    COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
    COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
FROM transactions
WHERE user_id = $1
  AND date >= $2 AND date < $3;
`, userID, monthStart(year, month), monthStart(year, month).AddDate(0, 1, 0)).Scan(&income, &expense)
	return income, expense, err
}

// ExpensesByCategory groups the month's expense amounts by category label.
func (r *TransactionRepositoryPG) ExpensesByCategory(ctx context.Context, userID string, year int, month time.Month) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `
SELECT coalesce(category, ''), SUM(amount)
FROM transactions
WHERE user_id = $1
  AND type = 'expense'
  AND date >= $2 AND date < $3
GROUP BY 1;
`, userID, monthStart(year, month), monthStart(year, month).AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var sum float64
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, err
		}
		out[name] = sum
	}
	return out, rows.Err()
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	if err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
