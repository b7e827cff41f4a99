package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type notificationDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	Type      string `json:"type"`
	Broadcast bool   `json:"broadcast"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func notificationResponse(n *domain.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Broadcast: n.Broadcast(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

// ListNotifications returns the caller's personal notifications plus
// broadcasts, each with the caller's own read state.
func (a *App) ListNotifications(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	items, err := a.Notifications.ListForUser(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	dtos := make([]notificationDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, notificationResponse(&items[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// UnreadNotificationCount returns how many visible notifications the caller
// has not read yet.
func (a *App) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	n, err := a.Notifications.UnreadCount(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"unread": n})
}

// MarkNotificationRead records the caller's read state for one notification.
// Reading a broadcast never affects other users.
func (a *App) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Notifications.MarkRead(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllNotificationsRead marks every visible notification read for the caller.
func (a *App) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Notifications.MarkAllRead(r.Context(), identity.ID); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
