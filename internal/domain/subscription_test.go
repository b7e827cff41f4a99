package domain

import (
	"testing"
	"time"
)

func TestMapStripeStatus(t *testing.T) {
	tests := []struct {
		raw   string
		want  SubscriptionStatus
		known bool
	}{
		{"active", SubscriptionActive, true},
		{"trialing", SubscriptionActive, true},
		{"past_due", SubscriptionPastDue, true},
		{"unpaid", SubscriptionPastDue, true},
		{"canceled", SubscriptionCancelled, true},
		{"incomplete", SubscriptionInactive, true},
		{"incomplete_expired", SubscriptionInactive, true},
		{"paused", SubscriptionInactive, true},
		{"something_new", SubscriptionInactive, false},
		{"", SubscriptionInactive, false},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, known := MapStripeStatus(tc.raw)
			if got != tc.want || known != tc.known {
				t.Fatalf("MapStripeStatus(%q) = (%q, %v), want (%q, %v)", tc.raw, got, known, tc.want, tc.known)
			}
		})
	}
}

func TestMapGHLStatus(t *testing.T) {
	tests := []struct {
		raw   string
		want  SubscriptionStatus
		known bool
	}{
		{"active", SubscriptionActive, true},
		{"cancelled", SubscriptionCancelled, true},
		{"canceled", SubscriptionCancelled, true},
		{"past_due", SubscriptionPastDue, true},
		{"unpaid", SubscriptionPastDue, true},
		{"paused", SubscriptionInactive, true},
		{"mystery", SubscriptionInactive, false},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, known := MapGHLStatus(tc.raw)
			if got != tc.want || known != tc.known {
				t.Fatalf("MapGHLStatus(%q) = (%q, %v), want (%q, %v)", tc.raw, got, known, tc.want, tc.known)
			}
		})
	}
}

func TestSubscriptionExpired(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		end  *time.Time
		want bool
	}{
		{"no period end never expires", nil, false},
		{"period end in the past", &past, true},
		{"period end in the future", &future, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Subscription{CurrentPeriodEnd: tc.end}
			if got := s.Expired(now); got != tc.want {
				t.Fatalf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}
