package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret, sub, email string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}
	return signed
}

func TestVerifyAccessToken(t *testing.T) {
	secret := "test-secret"
	token := signTestToken(t, secret, "user-123", "a@b.com", time.Now().Add(time.Hour))

	identity, err := VerifyAccessToken(secret, token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error: %v", err)
	}
	if identity.ID != "user-123" || identity.Email != "a@b.com" {
		t.Fatalf("VerifyAccessToken() = %+v, want user-123/a@b.com", identity)
	}
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	token := signTestToken(t, "secret-a", "user-123", "", time.Now().Add(time.Hour))
	if _, err := VerifyAccessToken("secret-b", token); err == nil {
		t.Fatal("VerifyAccessToken() expected signature error")
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	secret := "test-secret"
	token := signTestToken(t, secret, "user-123", "", time.Now().Add(-time.Minute))
	if _, err := VerifyAccessToken(secret, token); err == nil {
		t.Fatal("VerifyAccessToken() expected expiration error")
	}
}

func TestVerifyAccessTokenMissingSubject(t *testing.T) {
	secret := "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}
	if _, err := VerifyAccessToken(secret, signed); err == nil {
		t.Fatal("VerifyAccessToken() expected missing subject error")
	}
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"
	var seen *Identity
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + signTestToken(t, secret, "user-123", "a@b.com", time.Now().Add(time.Hour)), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK && (seen == nil || seen.ID != "user-123") {
				t.Fatalf("identity = %+v, want user-123", seen)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.1", "198.51.100.10:1234", "203.0.113.1"},
		{"forwarded list uses first valid", " garbage , 203.0.113.7 ", "198.51.100.10:1234", "203.0.113.7"},
		{"no forwarded uses remote host", "", "198.51.100.10:1234", "198.51.100.10"},
		{"remote without port", "", "203.0.113.1", "203.0.113.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
