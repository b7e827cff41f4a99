package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestJSONEnvelope(t *testing.T) {
	a := &App{Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	a.json(rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Error != nil {
		t.Fatalf("envelope = %+v, want success without error", env)
	}
}

func TestErrorStatusByCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeEmailNotConfirmed, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeSubscriptionRequired, http.StatusForbidden},
		{CodeSubscriptionInactive, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeValidationError, http.StatusBadRequest},
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternalError, http.StatusInternalServerError},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{"MADE_UP_CODE", http.StatusInternalServerError},
	}
	a := &App{Logger: zerolog.Nop()}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.error(rec, tc.code, "boom")
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil || env.Error.Code != tc.code {
				t.Fatalf("envelope = %+v, want failure with code %s", env, tc.code)
			}
		})
	}
}

func TestFailMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("bad input"), http.StatusBadRequest, CodeValidationError},
		{"not found", domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"no subscription", domain.ErrNoSubscription, http.StatusForbidden, CodeSubscriptionInactive},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, CodeInternalError},
	}
	a := &App{Logger: zerolog.Nop()}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.fail(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tc.wantCode {
				t.Fatalf("envelope = %+v, want code %s", env, tc.wantCode)
			}
		})
	}
}

func TestFailValidationMessagePreserved(t *testing.T) {
	a := &App{Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	a.fail(rec, domain.NewValidationError("amount must be greater than zero"))
	env := decodeEnvelope(t, rec)
	if env.Error.Message != "amount must be greater than zero" {
		t.Fatalf("message = %q", env.Error.Message)
	}
}
