package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// NotificationRepositoryPG implements domain.NotificationRepository. Read
// state lives in the notification_reads junction so one user's read of a
// broadcast never mutates the shared row.
type NotificationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepositoryPG.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{pool: pool}
}

// ListForUser returns personal notifications plus broadcasts, newest first,
// with the caller's read state joined in.
func (r *NotificationRepositoryPG) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
SELECT n.id, n.user_id, n.title, coalesce(n.message, ''), n.type,
       (nr.notification_id IS NOT NULL) AS read,
       n.created_at
FROM notifications n
LEFT JOIN notification_reads nr
       ON nr.notification_id = n.id AND nr.user_id = $1
WHERE n.user_id = $1 OR n.user_id IS NULL
ORDER BY n.created_at DESC
LIMIT 200;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// UnreadCount counts visible notifications the user has not read.
func (r *NotificationRepositoryPG) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM notifications n
WHERE (n.user_id = $1 OR n.user_id IS NULL)
  AND NOT EXISTS (
      SELECT 1 FROM notification_reads nr
      WHERE nr.notification_id = n.id AND nr.user_id = $1
  );
`, userID).Scan(&n)
	return n, err
}

// MarkRead records the caller's read of one visible notification.
func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO notification_reads (user_id, notification_id, read_at)
SELECT $1, n.id, NOW()
FROM notifications n
WHERE n.id = $2 AND (n.user_id = $1 OR n.user_id IS NULL)
ON CONFLICT (user_id, notification_id) DO NOTHING;
`, userID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either already read (fine) or not visible; disambiguate so foreign
		// ids surface as not found.
		var visible bool
		if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $2 AND (user_id = $1 OR user_id IS NULL));
`, userID, notificationID).Scan(&visible); err != nil {
			return err
		}
		if !visible {
			return domain.ErrNotFound
		}
	}
	return nil
}

// MarkAllRead records reads for every visible unread notification.
func (r *NotificationRepositoryPG) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO notification_reads (user_id, notification_id, read_at)
SELECT $1, n.id, NOW()
FROM notifications n
WHERE n.user_id = $1 OR n.user_id IS NULL
ON CONFLICT (user_id, notification_id) DO NOTHING;
`, userID)
	return err
}

// AdminNotificationRepositoryPG implements domain.AdminNotificationRepository
// for the CRM notification webhook.
type AdminNotificationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAdminNotificationRepository creates a new AdminNotificationRepositoryPG.
func NewAdminNotificationRepository(pool *pgxpool.Pool) *AdminNotificationRepositoryPG {
	return &AdminNotificationRepositoryPG{pool: pool}
}

// Create inserts a personal or broadcast notification row.
func (r *AdminNotificationRepositoryPG) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO notifications (id, user_id, title, message, type, created_at)
VALUES ($1, $2, $3, $4, $5, NOW());
`, n.ID, n.UserID, n.Title, n.Message, n.Type)
	return err
}
