package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type ghlWebhookRequest struct {
	Event          string `json:"event"`
	Email          string `json:"email"`
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
}

type ghlNotificationRequest struct {
	Email   string `json:"email"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (a *App) ghlSecretOK(r *http.Request) bool {
	secret := a.Cfg.GHLWebhookSecret
	if secret == "" {
		return a.Cfg.IsDevelopment()
	}
	presented := r.Header.Get("X-Webhook-Secret")
	if presented == "" {
		presented = r.URL.Query().Get("secret")
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}

// GHLWebhook ingests CRM membership events. The CRM owns the profile
// fast-path flag; payment providers never clear it.
func (a *App) GHLWebhook(w http.ResponseWriter, r *http.Request) {
	if !a.ghlSecretOK(r) {
		a.error(w, CodeUnauthorized, "invalid webhook secret")
		return
	}

	var req ghlWebhookRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	log := a.Logger.With().Str("event", req.Event).Str("email", req.Email).Logger()

	status, known := domain.MapGHLStatus(req.Status)
	if !known && req.Status != "" {
		log.Warn().Str("status", req.Status).Msg("unmapped crm subscription status")
	}

	userID, err := a.Provisioner.FindOrCreateUser(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("crm customer provisioning failed")
		a.json(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if req.SubscriptionID != "" {
		record := &domain.Subscription{
			UserID:     userID,
			Status:     status,
			Provider:   domain.ProviderGoHighLevel,
			ExternalID: req.SubscriptionID,
		}
		if ts := parseGHLTime(req.PeriodStart); ts != nil {
			record.CurrentPeriodStart = ts
		}
		if ts := parseGHLTime(req.PeriodEnd); ts != nil {
			record.CurrentPeriodEnd = ts
		}
		if _, err := a.AdminSubscriptions.UpsertByExternalID(r.Context(), record); err != nil {
			log.Error().Err(err).Str("subscription_id", req.SubscriptionID).Msg("crm subscription upsert failed")
		}
	}

	if status == domain.SubscriptionActive {
		if err := a.Provisioner.Activate(r.Context(), userID, req.Email, true); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("crm activation failed")
		}
	} else {
		if err := a.Provisioner.Deactivate(r.Context(), userID); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("crm deactivation failed")
		}
	}

	a.json(w, http.StatusOK, map[string]bool{"received": true})
}

// GHLNotificationWebhook lets the CRM push notifications, either to one user
// by email or as a broadcast when no email is given.
func (a *App) GHLNotificationWebhook(w http.ResponseWriter, r *http.Request) {
	if !a.ghlSecretOK(r) {
		a.error(w, CodeUnauthorized, "invalid webhook secret")
		return
	}

	var req ghlNotificationRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	n := domain.Notification{
		Title:   strings.TrimSpace(req.Title),
		Message: req.Message,
		Type:    domain.NotificationType(req.Type),
	}
	if err := n.Validate(); err != nil {
		a.fail(w, err)
		return
	}

	if req.Email != "" {
		userID, err := a.Provisioner.FindOrCreateUser(r.Context(), req.Email)
		if err != nil {
			a.Logger.Error().Err(err).Str("email", req.Email).Msg("notification target lookup failed")
			a.json(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
		n.UserID = &userID
	}

	if err := a.AdminNotifications.Create(r.Context(), &n); err != nil {
		a.Logger.Error().Err(err).Msg("notification insert failed")
	}
	a.json(w, http.StatusOK, map[string]bool{"received": true})
}

// parseGHLTime accepts RFC 3339 or a bare date; anything else is discarded.
func parseGHLTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}
