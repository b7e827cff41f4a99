package domain

import (
	"context"
	"time"
)

// Caller-scoped repositories take the owning user id on every method and
// must filter rows by it, even though the platform also enforces row-level
// security. The redundant filter is an invariant, not an optimization target.
//
// Admin* repositories bypass row security and are wired only into trusted
// internal paths: webhook handlers and the background reconciliation job.

// ProfileRepository reads and mutates the caller's own profile.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	UpdateName(ctx context.Context, userID, name string) (*Profile, error)
}

// AdminProfileRepository supports webhook-driven provisioning.
type AdminProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	SetSubscriptionStatus(ctx context.Context, userID, status string) error
}

// SubscriptionRepository serves the resolver's record lookup.
type SubscriptionRepository interface {
	// LatestActive returns the newest record with status active for the
	// user, or ErrNotFound.
	LatestActive(ctx context.Context, userID string) (*Subscription, error)
}

// AdminSubscriptionRepository transitions records from webhook events.
type AdminSubscriptionRepository interface {
	// UpsertByExternalID inserts or updates the record keyed on
	// (provider, external id) and returns the stored row.
	UpsertByExternalID(ctx context.Context, sub *Subscription) (*Subscription, error)
	// UpdateStatusByExternalID sets only the status of a matching record.
	UpdateStatusByExternalID(ctx context.Context, provider SubscriptionProvider, externalID string, status SubscriptionStatus) error
	// ExpireLapsed marks active records whose period end passed as inactive
	// and reports how many rows changed.
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

// TransactionRepository is the owner-scoped ledger store.
type TransactionRepository interface {
	List(ctx context.Context, userID string, f TransactionFilter) ([]Transaction, int64, error)
	Get(ctx context.Context, userID, id string) (*Transaction, error)
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, userID, id string, patch TransactionPatch) (*Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	CountByCategoryName(ctx context.Context, userID, name string) (int64, error)
	// MonthlyTotals sums income and expense amounts for the calendar month.
	MonthlyTotals(ctx context.Context, userID string, year int, month time.Month) (income, expense float64, err error)
	// ExpensesByCategory groups the month's expense amounts by category label.
	ExpensesByCategory(ctx context.Context, userID string, year int, month time.Month) (map[string]float64, error)
}

// CategoryRepository is the owner-scoped taxonomy store.
type CategoryRepository interface {
	List(ctx context.Context, userID string) ([]Category, error)
	Get(ctx context.Context, userID, id string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) (*Category, error)
	Delete(ctx context.Context, userID, id string) error
	// ExistsByName matches case-insensitively within (user, type).
	ExistsByName(ctx context.Context, userID string, t CategoryType, name string) (bool, error)
}

// SubcategoryRepository is the owner-scoped subcategory store.
type SubcategoryRepository interface {
	List(ctx context.Context, userID string) ([]Subcategory, error)
	Get(ctx context.Context, userID, id string) (*Subcategory, error)
	Create(ctx context.Context, s *Subcategory) error
	Update(ctx context.Context, s *Subcategory) (*Subcategory, error)
	Delete(ctx context.Context, userID, id string) error
}

// BudgetRepository stores configs and pockets.
type BudgetRepository interface {
	GetConfig(ctx context.Context, userID string, year int) (*BudgetConfig, error)
	UpsertConfig(ctx context.Context, cfg *BudgetConfig) (*BudgetConfig, error)
	ListPockets(ctx context.Context, userID string) ([]BudgetPocket, error)
	GetPocket(ctx context.Context, userID, id string) (*BudgetPocket, error)
	CreatePocket(ctx context.Context, p *BudgetPocket) error
	UpdatePocket(ctx context.Context, p *BudgetPocket) (*BudgetPocket, error)
	DeletePocket(ctx context.Context, userID, id string) error
	// ReplacePockets swaps the user's full pocket set in one transaction.
	ReplacePockets(ctx context.Context, userID string, pockets []BudgetPocket) ([]BudgetPocket, error)
}

// GoalRepository is the owner-scoped goal store.
type GoalRepository interface {
	List(ctx context.Context, userID string) ([]Goal, error)
	Get(ctx context.Context, userID, id string) (*Goal, error)
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) (*Goal, error)
	Delete(ctx context.Context, userID, id string) error
}

// NotificationRepository reads per-user notification state, including
// broadcasts visible to everyone.
type NotificationRepository interface {
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// AdminNotificationRepository creates rows from the CRM webhook.
type AdminNotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}
