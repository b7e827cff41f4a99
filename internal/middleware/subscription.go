package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// SubscriptionResolver decides whether a user currently has paid access.
type SubscriptionResolver interface {
	Resolve(ctx context.Context, userID string) (*domain.Subscription, error)
}

type subscriptionCtxKey struct{}

// RequireSubscription gates a route on an active subscription. It must run
// after Auth. The resolved subscription is attached to the context for
// handlers that want to show it.
func RequireSubscription(resolver SubscriptionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
			sub, err := resolver.Resolve(r.Context(), identity.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNoSubscription) {
					writeError(w, http.StatusForbidden, "SUBSCRIPTION_INACTIVE", "an active subscription is required")
					return
				}
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "subscription check failed")
				return
			}
			ctx := context.WithValue(r.Context(), subscriptionCtxKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubscriptionFromContext returns the subscription resolved by the gate, if any.
func SubscriptionFromContext(ctx context.Context) *domain.Subscription {
	if v, ok := ctx.Value(subscriptionCtxKey{}).(*domain.Subscription); ok {
		return v
	}
	return nil
}
