package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

const dateLayout = "2006-01-02"

type transactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type transactionPatchRequest struct {
	Type        *string  `json:"type"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
}

type transactionDTO struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

func transactionResponse(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

// ListTransactions returns one filtered, sorted page of the caller's ledger.
func (a *App) ListTransactions(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	q := r.URL.Query()

	filter := domain.TransactionFilter{
		Type:     domain.TransactionType(q.Get("type")),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	}
	if filter.Type != "" && !domain.ValidTransactionType(filter.Type) {
		a.error(w, CodeValidationError, "type must be income, expense or transfer")
		return
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			a.error(w, CodeValidationError, "from must be YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			a.error(w, CodeValidationError, "to must be YYYY-MM-DD")
			return
		}
		filter.To = &to
	}
	filter.Normalize()

	items, total, err := a.Transactions.List(r.Context(), identity.ID, filter)
	if err != nil {
		a.fail(w, err)
		return
	}

	dtos := make([]transactionDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, transactionResponse(&items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items": dtos,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

// GetTransaction fetches one transaction. Ids owned by someone else resolve
// to not found; existence is not disclosed to non-owners.
func (a *App) GetTransaction(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	t, err := a.Transactions.Get(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, transactionResponse(t))
}

// CreateTransaction inserts a new ledger entry.
func (a *App) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		a.error(w, CodeValidationError, "date is required as YYYY-MM-DD")
		return
	}

	t := domain.Transaction{
		UserID:      identity.ID,
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}
	if err := t.Validate(); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Transactions.Create(r.Context(), &t); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, transactionResponse(&t))
}

// UpdateTransaction applies a sparse patch; a patch with zero effective
// fields is a validation error.
func (a *App) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req transactionPatchRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}

	patch := domain.TransactionPatch{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Type != nil {
		t := domain.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			a.error(w, CodeValidationError, "date must be YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}
	if err := patch.Validate(); err != nil {
		a.fail(w, err)
		return
	}

	t, err := a.Transactions.Update(r.Context(), identity.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, transactionResponse(t))
}

// DeleteTransaction removes one transaction. Deletion is physical.
func (a *App) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	if err := a.Transactions.Delete(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}
