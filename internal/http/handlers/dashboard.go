package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

func monthYearParams(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, domain.NewValidationError("year must be an integer")
		}
		year = parsed
	}
	if raw := q.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, domain.NewValidationError("month must be between 1 and 12")
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}

// DashboardSummary returns the month's income, expense, balance and the
// expense breakdown by category.
func (a *App) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	year, month, err := monthYearParams(r)
	if err != nil {
		a.fail(w, err)
		return
	}

	income, expense, err := a.Transactions.MonthlyTotals(r.Context(), identity.ID, year, month)
	if err != nil {
		a.fail(w, err)
		return
	}
	byCategory, err := a.Transactions.ExpensesByCategory(r.Context(), identity.ID, year, month)
	if err != nil {
		a.fail(w, err)
		return
	}
	rounded := make(map[string]float64, len(byCategory))
	for name, amount := range byCategory {
		rounded[name] = domain.Round2(amount)
	}

	a.json(w, http.StatusOK, map[string]any{
		"year":        year,
		"month":       int(month),
		"income":      domain.Round2(income),
		"expense":     domain.Round2(expense),
		"balance":     domain.Round2(income - expense),
		"by_category": rounded,
	})
}

// DashboardStats returns the year's month-by-month income and expense series.
func (a *App) DashboardStats(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			a.error(w, CodeValidationError, "year must be an integer")
			return
		}
		year = parsed
	}

	type monthStat struct {
		Month   int     `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Balance float64 `json:"balance"`
	}
	series := make([]monthStat, 0, 12)
	var totalIncome, totalExpense float64
	for m := time.January; m <= time.December; m++ {
		income, expense, err := a.Transactions.MonthlyTotals(r.Context(), identity.ID, year, m)
		if err != nil {
			a.fail(w, err)
			return
		}
		totalIncome += income
		totalExpense += expense
		series = append(series, monthStat{
			Month:   int(m),
			Income:  domain.Round2(income),
			Expense: domain.Round2(expense),
			Balance: domain.Round2(income - expense),
		})
	}

	a.json(w, http.StatusOK, map[string]any{
		"year":          year,
		"total_income":  domain.Round2(totalIncome),
		"total_expense": domain.Round2(totalExpense),
		"balance":       domain.Round2(totalIncome - totalExpense),
		"series":        series,
	})
}
