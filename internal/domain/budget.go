package domain

import "time"

// BudgetConfig holds the annual revenue target for one (user, year).
type BudgetConfig struct {
	ID                  string
	UserID              string
	Year                int
	AnnualRevenueTarget float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks config invariants.
func (c *BudgetConfig) Validate() error {
	if c.Year < 2000 || c.Year > 2200 {
		return NewValidationError("year out of range")
	}
	if c.AnnualRevenueTarget < 0 {
		return NewValidationError("annual_revenue_target must not be negative")
	}
	return nil
}

// BudgetPocket allocates a percentage share of the monthly revenue estimate
// to a named spending bucket. Percentages are intentionally not validated to
// sum to 100; over- and under-allocation are allowed.
type BudgetPocket struct {
	ID         string
	UserID     string
	Name       string
	Percentage float64
	SortOrder  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks pocket invariants.
func (p *BudgetPocket) Validate() error {
	if p.Name == "" {
		return NewValidationError("name is required")
	}
	if p.Percentage < 0 {
		return NewValidationError("percentage must not be negative")
	}
	return nil
}
