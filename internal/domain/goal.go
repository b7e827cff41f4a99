package domain

import "time"

// Goal is a user-defined savings or spending target. Progress is tracked
// manually; there is no linkage to transactions.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Color         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks goal invariants and clamps progress at zero.
func (g *Goal) Validate() error {
	if g.Name == "" {
		return NewValidationError("name is required")
	}
	if g.TargetAmount <= 0 {
		return NewValidationError("target_amount must be greater than zero")
	}
	if g.CurrentAmount < 0 {
		g.CurrentAmount = 0
	}
	return nil
}
