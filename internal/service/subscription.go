package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// SubscriptionResolver reconciles the two sources of subscription truth: the
// denormalized profile flag written by the CRM webhook and the normalized
// subscription records written by the payment webhook.
//
// The profile flag always wins and is never expiry-checked. The CRM is
// trusted to push timely deactivation events; the documented risk is that a
// stale flag grants access until such an event arrives.
type SubscriptionResolver struct {
	profiles domain.ProfileRepository
	subs     domain.SubscriptionRepository
	bypass   bool
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSubscriptionResolver wires the resolver. With bypass set, resolution is
// skipped entirely and every user is treated as subscribed (development only).
func NewSubscriptionResolver(profiles domain.ProfileRepository, subs domain.SubscriptionRepository, bypass bool, logger zerolog.Logger) *SubscriptionResolver {
	return &SubscriptionResolver{
		profiles: profiles,
		subs:     subs,
		bypass:   bypass,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the user's currently-active subscription. It reports
// domain.ErrNoSubscription when none applies; any other error is a lookup
// failure.
func (s *SubscriptionResolver) Resolve(ctx context.Context, userID string) (*domain.Subscription, error) {
	if s.bypass {
		return &domain.Subscription{
			UserID:   userID,
			Status:   domain.SubscriptionActive,
			Provider: domain.ProviderDevelopment,
		}, nil
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if profile.HasActiveFlag() {
		// CRM fast path: synthesized result, no expiry check.
		return &domain.Subscription{
			UserID:   userID,
			Status:   domain.SubscriptionActive,
			Provider: domain.ProviderGoHighLevel,
		}, nil
	}

	sub, err := s.subs.LatestActive(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSubscription
		}
		return nil, err
	}
	if sub.Expired(s.now()) {
		s.logger.Debug().
			Str("user_id", userID).
			Str("subscription_id", sub.ID).
			Msg("active subscription past its period end, treating as inactive")
		return nil, domain.ErrNoSubscription
	}
	return sub, nil
}
