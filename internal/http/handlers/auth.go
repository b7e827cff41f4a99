package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/badoux/checkmail"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type sessionDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         any    `json:"user"`
}

type profileDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
}

func sessionResponse(s *gotrue.Session) sessionDTO {
	return sessionDTO{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User: profileDTO{
			ID:    s.User.ID,
			Email: s.User.Email,
			Name:  s.User.Name(),
		},
	}
}

// Register delegates sign-up to the auth platform, mirrors the identity into
// the profile table and provisions the default category set.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		a.error(w, CodeValidationError, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		a.error(w, CodeValidationError, "password must be at least 8 characters")
		return
	}

	session, err := a.Auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if gotrue.IsEmailTaken(err) {
			a.error(w, CodeValidationError, "email already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("sign up failed")
		a.error(w, CodeServiceUnavailable, "registration is temporarily unavailable")
		return
	}

	if err := a.AdminProfiles.Upsert(r.Context(), &domain.Profile{
		ID:    session.User.ID,
		Email: req.Email,
		Name:  req.Name,
	}); err != nil {
		a.Logger.Error().Err(err).Str("user_id", session.User.ID).Msg("profile mirror failed")
	}
	if err := a.Seeder.ProvisionDefaults(r.Context(), session.User.ID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", session.User.ID).Msg("category seeding failed")
	}

	a.json(w, http.StatusCreated, sessionResponse(session))
}

// Login exchanges credentials for a token pair.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	session, err := a.Auth.SignInWithPassword(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		switch {
		case gotrue.IsEmailNotConfirmed(err):
			a.error(w, CodeEmailNotConfirmed, "confirm your email before signing in")
		case gotrue.IsInvalidCredentials(err):
			a.error(w, CodeInvalidCredentials, "invalid email or password")
		default:
			a.Logger.Error().Err(err).Msg("login failed")
			a.error(w, CodeServiceUnavailable, "sign-in is temporarily unavailable")
		}
		return
	}
	a.json(w, http.StatusOK, sessionResponse(session))
}

// Refresh exchanges a refresh token for a new session.
func (a *App) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if req.RefreshToken == "" {
		a.error(w, CodeValidationError, "refresh_token is required")
		return
	}
	session, err := a.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		a.error(w, CodeTokenExpired, "session expired, sign in again")
		return
	}
	a.json(w, http.StatusOK, sessionResponse(session))
}

// ForgotPassword triggers a recovery email. The response never discloses
// whether the address exists.
func (a *App) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		a.error(w, CodeValidationError, "a valid email is required")
		return
	}
	if err := a.Auth.Recover(r.Context(), strings.ToLower(req.Email)); err != nil {
		a.Logger.Warn().Err(err).Msg("password recovery failed")
	}
	a.json(w, http.StatusOK, map[string]string{"message": "if the account exists, a recovery email was sent"})
}

// Me returns the caller's profile together with the resolved subscription state.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	profile, err := a.Profiles.Get(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}

	subscribed := true
	var source *domain.Subscription
	if sub, err := a.Resolver.Resolve(r.Context(), identity.ID); err != nil {
		if !errors.Is(err, domain.ErrNoSubscription) {
			a.fail(w, err)
			return
		}
		subscribed = false
	} else {
		source = sub
	}

	resp := map[string]any{
		"profile": profileDTO{
			ID:                 profile.ID,
			Email:              profile.Email,
			Name:               profile.Name,
			SubscriptionStatus: profile.SubscriptionStatus,
		},
		"subscription": map[string]any{"active": subscribed},
	}
	if source != nil {
		resp["subscription"] = map[string]any{
			"active":   true,
			"provider": source.Provider,
			"status":   source.Status,
		}
	}
	a.json(w, http.StatusOK, resp)
}

// GetProfile returns the caller's profile row.
func (a *App) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	profile, err := a.Profiles.Get(r.Context(), identity.ID)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, profileDTO{
		ID:                 profile.ID,
		Email:              profile.Email,
		Name:               profile.Name,
		SubscriptionStatus: profile.SubscriptionStatus,
	})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile updates the caller's display name.
func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := a.currentUser(r)
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, CodeValidationError, "name is required")
		return
	}
	profile, err := a.Profiles.UpdateName(r.Context(), identity.ID, strings.TrimSpace(req.Name))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, profileDTO{ID: profile.ID, Email: profile.Email, Name: profile.Name})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

// ChangePassword sets a new password via the platform, using the caller's
// own bearer token.
func (a *App) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, err)
		return
	}
	if len(req.Password) < 8 {
		a.error(w, CodeValidationError, "password must be at least 8 characters")
		return
	}
	token := bearerToken(r)
	if token == "" {
		a.error(w, CodeUnauthorized, "invalid or expired token")
		return
	}
	if err := a.Auth.UpdatePassword(r.Context(), token, req.Password); err != nil {
		a.Logger.Error().Err(err).Msg("password change failed")
		a.error(w, CodeServiceUnavailable, "password change is temporarily unavailable")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
