package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// Stable error codes exposed to the frontend. Each maps to a fixed HTTP status.
const (
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeEmailNotConfirmed    = "EMAIL_NOT_CONFIRMED"
	CodeForbidden            = "FORBIDDEN"
	CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	CodeSubscriptionInactive = "SUBSCRIPTION_INACTIVE"
	CodeNotFound             = "NOT_FOUND"
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeRateLimit            = "RATE_LIMIT"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	CodeUnauthorized:         http.StatusUnauthorized,
	CodeInvalidCredentials:   http.StatusUnauthorized,
	CodeTokenExpired:         http.StatusUnauthorized,
	CodeEmailNotConfirmed:    http.StatusUnauthorized,
	CodeForbidden:            http.StatusForbidden,
	CodeSubscriptionRequired: http.StatusForbidden,
	CodeSubscriptionInactive: http.StatusForbidden,
	CodeNotFound:             http.StatusNotFound,
	CodeValidationError:      http.StatusBadRequest,
	CodeInvalidRequest:       http.StatusBadRequest,
	CodeRateLimit:            http.StatusTooManyRequests,
	CodeInternalError:        http.StatusInternalServerError,
	CodeServiceUnavailable:   http.StatusServiceUnavailable,
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func (a *App) error(w http.ResponseWriter, code, message string) {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// fail maps domain errors to envelope codes; anything unrecognized is logged
// and reported as a generic internal error.
func (a *App) fail(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		a.error(w, CodeValidationError, ve.Msg)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, CodeNotFound, "resource not found")
	case errors.Is(err, domain.ErrNoSubscription):
		a.error(w, CodeSubscriptionInactive, "an active subscription is required")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, CodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, CodeForbidden, "access denied")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, CodeInternalError, "something went wrong")
	}
}

// decode parses a JSON request body, rejecting unknown garbage politely.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid request payload")
	}
	return nil
}
