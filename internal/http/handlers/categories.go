package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type categoryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

func categoryResponse(c *domain.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Name: c.Name, Type: string(c.Type), Icon: c.Icon, Color: c.Color}
}

// ListCategories returns the caller's taxonomy.
func (a *App) ListCategories(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	items, err := a.Categories.List(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	dtos := make([]categoryDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, categoryResponse(&items[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// CreateCategory inserts a category; names are unique per user and type,
// compared case-insensitively.
func (a *App) CreateCategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	c := domain.Category{
		UserID: identity.ID,
		Name:   strings.TrimSpace(req.Name),
		Type:   domain.CategoryType(req.Type),
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := c.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	exists, err := a.Categories.ExistsByName(r.Context(), identity.ID, c.Type, c.Name)
	if err != nil {
		a.fail(w, err)
		return
	}
	if exists {
		a.error(w, CodeValidationError, "a category with that name already exists")
		return
	}
	if err := a.Categories.Create(r.Context(), &c); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, categoryResponse(&c))
}

// UpdateCategory rewrites name, icon and color. The type is immutable.
func (a *App) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	existing, err := a.Categories.Get(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	if req.Icon != "" {
		existing.Icon = req.Icon
	}
	if req.Color != "" {
		existing.Color = req.Color
	}
	updated, err := a.Categories.Update(r.Context(), existing)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, categoryResponse(updated))
}

// DeleteCategory refuses to remove a category still referenced by
// transactions; the refusal names the blocking count.
func (a *App) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	c, err := a.Categories.Get(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	n, err := a.Transactions.CountByCategoryName(r.Context(), identity.ID, c.Name)
	if err != nil {
		a.fail(w, err)
		return
	}
	if n > 0 {
		a.error(w, CodeValidationError, fmt.Sprintf("category is used by %d transactions", n))
		return
	}
	if err := a.Categories.Delete(r.Context(), identity.ID, c.ID); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

type subcategoryRequest struct {
	CategoryID           string `json:"category_id"`
	Name                 string `json:"name"`
	CounterpartyName     string `json:"counterparty_name"`
	CounterpartyDocument string `json:"counterparty_document"`
	CounterpartyContact  string `json:"counterparty_contact"`
}

type subcategoryDTO struct {
	ID                   string `json:"id"`
	CategoryID           string `json:"category_id"`
	Name                 string `json:"name"`
	CounterpartyName     string `json:"counterparty_name,omitempty"`
	CounterpartyDocument string `json:"counterparty_document,omitempty"`
	CounterpartyContact  string `json:"counterparty_contact,omitempty"`
}

func subcategoryResponse(s *domain.Subcategory) subcategoryDTO {
	return subcategoryDTO{
		ID:                   s.ID,
		CategoryID:           s.CategoryID,
		Name:                 s.Name,
		CounterpartyName:     s.CounterpartyName,
		CounterpartyDocument: s.CounterpartyDocument,
		CounterpartyContact:  s.CounterpartyContact,
	}
}

// ListSubcategories returns the caller's subcategories.
func (a *App) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	items, err := a.Subcategories.List(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	dtos := make([]subcategoryDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, subcategoryResponse(&items[i]))
	}
	a.json(w, http.StatusOK, dtos)
}

// CreateSubcategory inserts a subcategory under one of the caller's categories.
func (a *App) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req subcategoryRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	s := domain.Subcategory{
		UserID:               identity.ID,
		CategoryID:           req.CategoryID,
		Name:                 strings.TrimSpace(req.Name),
		CounterpartyName:     req.CounterpartyName,
		CounterpartyDocument: req.CounterpartyDocument,
		CounterpartyContact:  req.CounterpartyContact,
	}
	if err := s.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Subcategories.Create(r.Context(), &s); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, subcategoryResponse(&s))
}

// UpdateSubcategory rewrites the mutable fields of a subcategory.
func (a *App) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req subcategoryRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	existing, err := a.Subcategories.Get(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	existing.CounterpartyName = req.CounterpartyName
	existing.CounterpartyDocument = req.CounterpartyDocument
	existing.CounterpartyContact = req.CounterpartyContact

	updated, err := a.Subcategories.Update(r.Context(), existing)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, subcategoryResponse(updated))
}

// DeleteSubcategory removes a subcategory.
func (a *App) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Subcategories.Delete(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "subcategory deleted"})
}
