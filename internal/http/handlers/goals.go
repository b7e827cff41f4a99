package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type goalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Color         string  `json:"color"`
}

type goalDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Progress      float64 `json:"progress"`
	Color         string  `json:"color,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func goalResponse(g *domain.Goal) goalDTO {
	progress := 0.0
	if g.TargetAmount > 0 {
		progress = domain.Round2(g.CurrentAmount / g.TargetAmount * 100)
	}
	return goalDTO{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      progress,
		Color:         g.Color,
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
	}
}

// ListGoals returns the caller's goals.
func (a *App) ListGoals(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	items, err := a.Goals.List(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	dtos := make([]goalDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, goalResponse(&items[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// CreateGoal inserts a savings target.
func (a *App) CreateGoal(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req goalRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	g := domain.Goal{
		UserID:        identity.ID,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Color:         req.Color,
	}
	if err := g.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Goals.Create(r.Context(), &g); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, goalResponse(&g))
}

// UpdateGoal rewrites a goal, typically to record manual progress.
func (a *App) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req goalRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	existing, err := a.Goals.Get(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	if req.TargetAmount != 0 {
		existing.TargetAmount = req.TargetAmount
	}
	existing.CurrentAmount = req.CurrentAmount
	if req.Color != "" {
		existing.Color = req.Color
	}
	if err := existing.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	updated, err := a.Goals.Update(r.Context(), existing)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, goalResponse(updated))
}

// DeleteGoal removes a goal.
func (a *App) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Goals.Delete(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "goal deleted"})
}
