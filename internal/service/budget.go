package service

import (
	"context"
	"errors"
	"time"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// PocketStatus classifies actual spend against the pocket budget.
type PocketStatus string

const (
	PocketOver    PocketStatus = "over"
	PocketUnder   PocketStatus = "under"
	PocketOnTrack PocketStatus = "on_track"
)

// PocketOverview is one pocket's budget-vs-actual line.
type PocketOverview struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Percentage       float64      `json:"percentage"`
	BudgetValue      float64      `json:"budget_value"`
	ActualValue      float64      `json:"actual_value"`
	DeviationAmount  float64      `json:"deviation_amount"`
	DeviationPercent float64      `json:"deviation_percent"`
	Status           PocketStatus `json:"status"`
}

// MonthPoint is one entry of the trailing 12-month series.
type MonthPoint struct {
	Month         int     `json:"month"`
	Estimated     float64 `json:"estimated"`
	ActualIncome  float64 `json:"actual_income"`
	ActualExpense float64 `json:"actual_expense"`
}

// Alert flags a budget condition worth surfacing on the dashboard.
type Alert struct {
	Type    string `json:"type"`
	Pocket  string `json:"pocket,omitempty"`
	Message string `json:"message"`
}

// Overview is the budget engine's full answer for one month.
type Overview struct {
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	MonthlyEstimate float64          `json:"monthly_estimate"`
	ActualSales     float64          `json:"actual_sales"`
	Pockets         []PocketOverview `json:"pockets"`
	Series          []MonthPoint     `json:"series"`
	Alerts          []Alert          `json:"alerts"`
}

// BudgetEngine derives per-pocket monthly budgets from the annual revenue
// target and compares them with actual category spend. Pockets join expenses
// by exact category name; that coupling is deliberate and pocket writes keep
// a matching expense category provisioned.
type BudgetEngine struct {
	budgets      domain.BudgetRepository
	transactions domain.TransactionRepository
	categories   domain.CategoryRepository
}

// NewBudgetEngine wires the engine.
func NewBudgetEngine(budgets domain.BudgetRepository, transactions domain.TransactionRepository, categories domain.CategoryRepository) *BudgetEngine {
	return &BudgetEngine{budgets: budgets, transactions: transactions, categories: categories}
}

// Overview computes the budget-vs-actual picture for one month.
func (e *BudgetEngine) Overview(ctx context.Context, userID string, year int, month time.Month) (*Overview, error) {
	monthlyEstimate := 0.0
	cfg, err := e.budgets.GetConfig(ctx, userID, year)
	switch {
	case err == nil:
		monthlyEstimate = domain.Round2(cfg.AnnualRevenueTarget / 12)
	case errors.Is(err, domain.ErrNotFound):
		// No config for the year: estimates stay at zero.
	default:
		return nil, err
	}

	pockets, err := e.budgets.ListPockets(ctx, userID)
	if err != nil {
		return nil, err
	}

	income, _, err := e.transactions.MonthlyTotals(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	actualSales := domain.Round2(income)

	expensesByCategory, err := e.transactions.ExpensesByCategory(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Year:            year,
		Month:           int(month),
		MonthlyEstimate: monthlyEstimate,
		ActualSales:     actualSales,
		Pockets:         make([]PocketOverview, 0, len(pockets)),
	}

	for _, p := range pockets {
		budgetValue := domain.Round2(monthlyEstimate * p.Percentage / 100)
		actualValue := domain.Round2(expensesByCategory[p.Name])
		deviation := domain.Round2(actualValue - budgetValue)

		deviationPercent := 0.0
		if budgetValue != 0 {
			deviationPercent = domain.Round2(deviation / budgetValue * 100)
		}

		status := PocketOnTrack
		switch {
		case deviation > 0:
			status = PocketOver
		case deviation < 0:
			status = PocketUnder
		}

		overview.Pockets = append(overview.Pockets, PocketOverview{
			ID:               p.ID,
			Name:             p.Name,
			Percentage:       p.Percentage,
			BudgetValue:      budgetValue,
			ActualValue:      actualValue,
			DeviationAmount:  deviation,
			DeviationPercent: deviationPercent,
			Status:           status,
		})
	}

	// One query per month; fine at dashboard-refresh cadence.
	for m := time.January; m <= time.December; m++ {
		in, out, err := e.transactions.MonthlyTotals(ctx, userID, year, m)
		if err != nil {
			return nil, err
		}
		overview.Series = append(overview.Series, MonthPoint{
			Month:         int(m),
			Estimated:     monthlyEstimate,
			ActualIncome:  domain.Round2(in),
			ActualExpense: domain.Round2(out),
		})
	}

	if actualSales < monthlyEstimate {
		overview.Alerts = append(overview.Alerts, Alert{
			Type:    "below_estimate",
			Message: "actual sales are below the monthly revenue estimate",
		})
	}
	for _, p := range overview.Pockets {
		if p.Status == PocketOver {
			overview.Alerts = append(overview.Alerts, Alert{
				Type:    "pocket_over_budget",
				Pocket:  p.Name,
				Message: "spending exceeds the allocated budget for " + p.Name,
			})
		}
	}

	return overview, nil
}

// EnsurePocketCategory provisions a matching expense category so that
// category-based expense entry lines up with pocket-based budget tracking.
// The join stays name-based; this only keeps the names aligned going forward.
func (e *BudgetEngine) EnsurePocketCategory(ctx context.Context, userID, name string) error {
	exists, err := e.categories.ExistsByName(ctx, userID, domain.CategoryExpense, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return e.categories.Create(ctx, &domain.Category{
		UserID: userID,
		Name:   name,
		Type:   domain.CategoryExpense,
		Icon:   "wallet",
		Color:  "#64748b",
	})
}
