package domain

import "time"

// ProfileStatusActive is the denormalized subscription flag value that grants
// access on its own. It is written by the CRM webhook as a fast-path signal
// and deliberately wins over Subscription records during resolution.
const ProfileStatusActive = "active"

// Profile mirrors one registered identity in the auth platform. Rows are
// created at registration or by webhook provisioning and never deleted here.
type Profile struct {
	ID                 string
	Email              string
	Name               string
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasActiveFlag reports whether the denormalized CRM flag grants access.
func (p *Profile) HasActiveFlag() bool {
	return p != nil && p.SubscriptionStatus == ProfileStatusActive
}
