package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type budgetConfigRequest struct {
	Year                int     `json:"year"`
	AnnualRevenueTarget float64 `json:"annual_revenue_target"`
}

type budgetConfigDTO struct {
	ID                  string  `json:"id"`
	Year                int     `json:"year"`
	AnnualRevenueTarget float64 `json:"annual_revenue_target"`
	MonthlyEstimate     float64 `json:"monthly_estimate"`
}

func budgetConfigResponse(c *domain.BudgetConfig) budgetConfigDTO {
	return budgetConfigDTO{
		ID:                  c.ID,
		Year:                c.Year,
		AnnualRevenueTarget: c.AnnualRevenueTarget,
		MonthlyEstimate:     domain.Round2(c.AnnualRevenueTarget / 12),
	}
}

// GetBudgetConfig returns the annual config for the requested year,
// defaulting to the current year.
func (a *App) GetBudgetConfig(w http.ResponseWriter, r *http.Request) {
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
	cfg, err := a.Budgets.GetConfig(r.Context(), identity.ID, year)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, budgetConfigResponse(cfg))
}

// PutBudgetConfig creates or replaces the config for one year.
func (a *App) PutBudgetConfig(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req budgetConfigRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	cfg := domain.BudgetConfig{
		UserID:              identity.ID,
		Year:                req.Year,
		AnnualRevenueTarget: req.AnnualRevenueTarget,
	}
	if err := cfg.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	stored, err := a.Budgets.UpsertConfig(r.Context(), &cfg)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, budgetConfigResponse(stored))
}

type pocketRequest struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	SortOrder  int     `json:"sort_order"`
}

type pocketDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	SortOrder  int     `json:"sort_order"`
}

func pocketResponse(p *domain.BudgetPocket) pocketDTO {
	return pocketDTO{ID: p.ID, Name: p.Name, Percentage: p.Percentage, SortOrder: p.SortOrder}
}

// ListPockets returns the caller's pocket set.
func (a *App) ListPockets(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	items, err := a.Budgets.ListPockets(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	dtos := make([]pocketDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, pocketResponse(&items[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// CreatePocket inserts a pocket and provisions its expense category.
func (a *App) CreatePocket(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req pocketRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	p := domain.BudgetPocket{
		UserID:     identity.ID,
		Name:       strings.TrimSpace(req.Name),
		Percentage: req.Percentage,
		SortOrder:  req.SortOrder,
	}
	if err := p.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Budgets.CreatePocket(r.Context(), &p); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Budget.EnsurePocketCategory(r.Context(), identity.ID, p.Name); err != nil {
		a.Logger.Warn().Err(err).Str("pocket", p.Name).Msg("pocket category provisioning failed")
	}
	a.json(w, http.StatusCreated, pocketResponse(&p))
}

// UpdatePocket rewrites a pocket's name, percentage and ordering.
func (a *App) UpdatePocket(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req pocketRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	existing, err := a.Budgets.GetPocket(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.Percentage = req.Percentage
	existing.SortOrder = req.SortOrder
	if err := existing.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	updated, err := a.Budgets.UpdatePocket(r.Context(), existing)
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Budget.EnsurePocketCategory(r.Context(), identity.ID, updated.Name); err != nil {
		a.Logger.Warn().Err(err).Str("pocket", updated.Name).Msg("pocket category provisioning failed")
	}
	a.json(w, http.StatusOK, pocketResponse(updated))
}

// DeletePocket removes a pocket. The matching expense category stays.
func (a *App) DeletePocket(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Budgets.DeletePocket(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "pocket deleted"})
}

type bulkPocketsRequest struct {
	Pockets []pocketRequest `json:"pockets"`
}

// ReplacePockets swaps the full pocket set atomically, preserving request
// order, and provisions a category for each pocket.
func (a *App) ReplacePockets(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req bulkPocketsRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	pockets := make([]domain.BudgetPocket, 0, len(req.Pockets))
	for i, in := range req.Pockets {
		p := domain.BudgetPocket{
			UserID:     identity.ID,
			Name:       strings.TrimSpace(in.Name),
			Percentage: in.Percentage,
			SortOrder:  i,
		}
		if err := p.Validate(); err != nil {
			a.fail(w, err)
			return
		}
		pockets = append(pockets, p)
	}

	stored, err := a.Budgets.ReplacePockets(r.Context(), identity.ID, pockets)
	if err != nil {
		a.fail(w, err)
		return
	}
	for i := range stored {
		if err := a.Budget.EnsurePocketCategory(r.Context(), identity.ID, stored[i].Name); err != nil {
			a.Logger.Warn().Err(err).Str("pocket", stored[i].Name).Msg("pocket category provisioning failed")
		}
	}

	dtos := make([]pocketDTO, 0, len(stored))
	for i := range stored {
		dtos = append(dtos, pocketResponse(&stored[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// BudgetOverview runs the budget engine for one month.
func (a *App) BudgetOverview(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			a.error(w, CodeValidationError, "year must be an integer")
			return
		}
		year = parsed
	}
	if raw := q.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			a.error(w, CodeValidationError, "month must be between 1 and 12")
			return
		}
		month = time.Month(parsed)
	}

	overview, err := a.Budget.Overview(r.Context(), identity.ID, year, month)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, overview)
}
