package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// Stripe caps webhook payloads well below this; anything larger is garbage.
const stripeMaxBodyBytes = 65536

// CustomerEmailLookup resolves a payment-provider customer id to an email.
// Subscription events carry only the customer id, not the address.
type CustomerEmailLookup interface {
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// StripeCustomerDirectory implements CustomerEmailLookup against the Stripe API.
type StripeCustomerDirectory struct {
	api *client.API
}

// NewStripeCustomerDirectory builds a directory from a secret key.
func NewStripeCustomerDirectory(secretKey string) *StripeCustomerDirectory {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCustomerDirectory{api: api}
}

// CustomerEmail fetches the customer and returns its email address.
func (d *StripeCustomerDirectory) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	cust, err := d.api.Customers.Get(customerID, &stripe.CustomerParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return "", err
	}
	if cust.Email == "" {
		return "", fmt.Errorf("stripe customer %s has no email", customerID)
	}
	return cust.Email, nil
}

// StripeWebhook ingests payment events. Only a bad signature is rejected;
// internal failures are logged and acknowledged so Stripe does not retry
// events we cannot process differently next time.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, stripeMaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		a.error(w, CodeInvalidRequest, "unreadable payload")
		return
	}

	var event stripe.Event
	if a.Cfg.StripeWebhookSecret != "" && !a.Cfg.IsDevelopment() {
		event, err = webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), a.Cfg.StripeWebhookSecret)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("stripe signature verification failed")
			a.error(w, CodeUnauthorized, "invalid webhook signature")
			return
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		a.error(w, CodeInvalidRequest, "invalid webhook payload")
		return
	}

	log := a.Logger.With().Str("event_id", event.ID).Str("event_type", string(event.Type)).Logger()

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Error().Err(err).Msg("checkout session decode failed")
			break
		}
		email := session.CustomerEmail
		if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
			email = session.CustomerDetails.Email
		}
		a.activateFromPayment(r.Context(), log, email, true)

	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			log.Error().Err(err).Msg("invoice decode failed")
			break
		}
		a.activateFromPayment(r.Context(), log, invoice.CustomerEmail, false)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Error().Err(err).Msg("subscription decode failed")
			break
		}
		a.upsertStripeSubscription(r.Context(), log, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Error().Err(err).Msg("subscription decode failed")
			break
		}
		if err := a.AdminSubscriptions.UpdateStatusByExternalID(r.Context(), domain.ProviderStripe, sub.ID, domain.SubscriptionCancelled); err != nil {
			log.Error().Err(err).Str("subscription_id", sub.ID).Msg("subscription cancellation failed")
		}

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			log.Error().Err(err).Msg("invoice decode failed")
			break
		}
		if invoice.Subscription == nil {
			log.Warn().Msg("payment failure without subscription reference")
			break
		}
		if err := a.AdminSubscriptions.UpdateStatusByExternalID(r.Context(), domain.ProviderStripe, invoice.Subscription.ID, domain.SubscriptionPastDue); err != nil {
			log.Error().Err(err).Str("subscription_id", invoice.Subscription.ID).Msg("past due transition failed")
		}

	default:
		log.Debug().Msg("unhandled stripe event")
	}

	a.json(w, http.StatusOK, map[string]bool{"received": true})
}

// activateFromPayment is the fast path: a paid signal flips the profile flag
// before the subscription record lands, so access opens immediately.
func (a *App) activateFromPayment(ctx context.Context, log zerolog.Logger, email string, sendMagicLink bool) {
	if email == "" {
		log.Warn().Msg("payment event without customer email")
		return
	}
	userID, err := a.Provisioner.FindOrCreateUser(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("customer provisioning failed")
		return
	}
	if err := a.Provisioner.Activate(ctx, userID, email, sendMagicLink); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("activation failed")
	}
}

func (a *App) upsertStripeSubscription(ctx context.Context, log zerolog.Logger, sub *stripe.Subscription) {
	if sub.Customer == nil {
		log.Warn().Str("subscription_id", sub.ID).Msg("subscription event without customer")
		return
	}
	email, err := a.StripeCustomers.CustomerEmail(ctx, sub.Customer.ID)
	if err != nil {
		log.Error().Err(err).Str("customer_id", sub.Customer.ID).Msg("customer email lookup failed")
		return
	}
	userID, err := a.Provisioner.FindOrCreateUser(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("customer provisioning failed")
		return
	}

	status, known := domain.MapStripeStatus(string(sub.Status))
	if !known {
		log.Warn().Str("status", string(sub.Status)).Msg("unmapped stripe subscription status")
	}

	record := &domain.Subscription{
		UserID:     userID,
		Status:     status,
		Provider:   domain.ProviderStripe,
		ExternalID: sub.ID,
	}
	if sub.CurrentPeriodStart > 0 {
		start := time.Unix(sub.CurrentPeriodStart, 0).UTC()
		record.CurrentPeriodStart = &start
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		record.CurrentPeriodEnd = &end
	}

	if _, err := a.AdminSubscriptions.UpsertByExternalID(ctx, record); err != nil {
		log.Error().Err(err).Str("subscription_id", sub.ID).Msg("subscription upsert failed")
		return
	}

	if status == domain.SubscriptionActive {
		if err := a.Provisioner.Activate(ctx, userID, email, false); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("activation failed")
		}
	}
}
