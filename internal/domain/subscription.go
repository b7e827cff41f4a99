package domain

import "time"

// SubscriptionStatus enumerates internal subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
)

// SubscriptionProvider identifies the upstream system that owns a record.
type SubscriptionProvider string

const (
	ProviderStripe      SubscriptionProvider = "stripe"
	ProviderGoHighLevel SubscriptionProvider = "gohighlevel"
	ProviderDevelopment SubscriptionProvider = "development"
)

// Subscription tracks one provider-side subscription instance and its
// billing period. Records are upserted by webhook handlers keyed on
// (provider, external id); a user may accumulate several across providers.
type Subscription struct {
	ID                 string
	UserID             string
	Status             SubscriptionStatus
	Provider           SubscriptionProvider
	ExternalID         string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Expired reports whether the billing period has lapsed. A missing period end
// never expires; the provider is expected to cancel explicitly.
func (s *Subscription) Expired(now time.Time) bool {
	return s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(now)
}

// MapStripeStatus translates Stripe's subscription status vocabulary into the
// internal one. The second return value is false for values outside the known
// vocabulary; callers must log those rather than trust the inactive fallback.
// past_due maps to its own state (not active): access is denied while the
// provider's retry policy runs, which is the conservative reading.
func MapStripeStatus(raw string) (SubscriptionStatus, bool) {
	switch raw {
	case "active", "trialing":
		return SubscriptionActive, true
	case "past_due", "unpaid":
		return SubscriptionPastDue, true
	case "canceled":
		return SubscriptionCancelled, true
	case "incomplete", "incomplete_expired", "paused":
		return SubscriptionInactive, true
	default:
		return SubscriptionInactive, false
	}
}

// MapGHLStatus translates the CRM's status vocabulary into the internal one.
func MapGHLStatus(raw string) (SubscriptionStatus, bool) {
	switch raw {
	case "active":
		return SubscriptionActive, true
	case "cancelled", "canceled":
		return SubscriptionCancelled, true
	case "past_due", "unpaid":
		return SubscriptionPastDue, true
	case "paused":
		return SubscriptionInactive, true
	default:
		return SubscriptionInactive, false
	}
}
