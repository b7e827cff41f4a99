// Package gotrue is a thin REST client for the external auth platform.
// Credential checks, token issuance and the user store all live on the
// platform side; this client only shuttles requests to it.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMissingBaseURL indicates that the client was configured without a platform URL.
var ErrMissingBaseURL = errors.New("gotrue: base url is required")

// APIError is the decoded error body returned by the platform.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error_code"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gotrue: %d %s %s", e.Status, e.Code, e.Message)
}

// IsInvalidCredentials reports whether err is a rejected credential error.
func IsInvalidCredentials(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "invalid login credentials")
}

// IsEmailNotConfirmed reports whether err means the account email is unverified.
func IsEmailNotConfirmed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.Code == "email_not_confirmed" || strings.Contains(strings.ToLower(apiErr.Message), "email not confirmed"))
}

// IsEmailTaken reports whether err means the email is already registered.
func IsEmailTaken(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.Code == "email_exists" || strings.Contains(strings.ToLower(apiErr.Message), "already registered"))
}

// User is the platform-side identity record.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Name extracts the display name from user metadata, if present.
func (u *User) Name() string {
	if u.UserMetadata == nil {
		return ""
	}
	if v, ok := u.UserMetadata["name"].(string); ok {
		return v
	}
	return ""
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Options configures the client.
type Options struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client
}

// Client performs HTTP calls against the platform's auth API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		serviceKey: opts.ServiceKey,
		httpClient: httpClient,
	}, nil
}

// SignUp registers a new identity with email and password.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"name": name},
	}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignInWithPassword exchanges credentials for a token pair.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]any{"refresh_token": refreshToken}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Recover triggers a password recovery email.
func (c *Client) Recover(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/recover", "", map[string]any{"email": email}, nil)
}

// UpdatePassword sets a new password for the bearer of accessToken.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	return c.do(ctx, http.MethodPut, "/user", accessToken, map[string]any{"password": password}, nil)
}

// UpdateMetadata patches user metadata for the bearer of accessToken.
func (c *Client) UpdateMetadata(ctx context.Context, accessToken string, metadata map[string]any) error {
	return c.do(ctx, http.MethodPut, "/user", accessToken, map[string]any{"data": metadata}, nil)
}

// AdminCreateUser provisions an identity without a password, pre-confirmed.
// Used by webhook handlers when a paying customer has no account yet.
func (c *Client) AdminCreateUser(ctx context.Context, email string) (*User, error) {
	body := map[string]any{
		"email":         email,
		"email_confirm": true,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/admin/users", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminFindUserByEmail scans the identity list for a matching email. This is
// the fallback path when the profile table has no row yet; it pages through
// the full list so redelivered webhooks never provision duplicates.
func (c *Client) AdminFindUserByEmail(ctx context.Context, email string) (*User, error) {
	needle := strings.ToLower(email)
	for page := 1; page <= 20; page++ {
		var result struct {
			Users []User `json:"users"`
		}
		path := fmt.Sprintf("/admin/users?page=%d&per_page=200", page)
		if err := c.do(ctx, http.MethodGet, path, "", nil, &result); err != nil {
			return nil, err
		}
		for i := range result.Users {
			if strings.ToLower(result.Users[i].Email) == needle {
				return &result.Users[i], nil
			}
		}
		if len(result.Users) < 200 {
			break
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Code: "user_not_found", Message: "user not found"}
}

// SendMagicLink triggers a passwordless sign-in email.
func (c *Client) SendMagicLink(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/magiclink", "", map[string]any{"email": email}, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("gotrue: build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gotrue: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("gotrue: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("gotrue: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			// Some endpoints use error/error_description instead of msg.
			var alt struct {
				Error       string `json:"error"`
				Description string `json:"error_description"`
			}
			if json.Unmarshal(raw, &alt) == nil && alt.Description != "" {
				apiErr.Code = alt.Error
				apiErr.Message = alt.Description
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("gotrue: decode response: %w", err)
		}
	}
	return nil
}
