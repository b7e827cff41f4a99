package domain

import "time"

// NotificationType enumerates supported notification categories.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationPromo   NotificationType = "promo"
	NotificationUpdate  NotificationType = "update"
	NotificationAlert   NotificationType = "alert"
)

// ValidNotificationType reports whether t is a supported type.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationPromo, NotificationUpdate, NotificationAlert:
		return true
	}
	return false
}

// Notification is either personal (UserID set) or broadcast (UserID nil,
// visible to every user). Read state is tracked per user in a junction
// table so that one user marking a broadcast read never affects others.
type Notification struct {
	ID        string
	UserID    *string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}

// Broadcast reports whether the notification targets all users.
func (n *Notification) Broadcast() bool {
	return n.UserID == nil
}

// Validate checks notification invariants.
func (n *Notification) Validate() error {
	if n.Title == "" {
		return NewValidationError("title is required")
	}
	if n.Type == "" {
		n.Type = NotificationInfo
	}
	if !ValidNotificationType(n.Type) {
		return NewValidationError("unsupported notification type")
	}
	return nil
}
