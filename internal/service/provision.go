package service

import (
	"context"
	"errors"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
)

// IdentityDirectory is the slice of the auth platform API that provisioning
// needs. Defined here so webhook tests can substitute a fake.
type IdentityDirectory interface {
	AdminCreateUser(ctx context.Context, email string) (*gotrue.User, error)
	AdminFindUserByEmail(ctx context.Context, email string) (*gotrue.User, error)
	SendMagicLink(ctx context.Context, email string) error
}

// Provisioner resolves webhook customers to local users, creating auth
// identities when needed. Lookup order is profile table first, then the
// platform's identity list, then creation; that ordering is what keeps
// redelivered webhooks from provisioning duplicate identities.
type Provisioner struct {
	directory IdentityDirectory
	profiles  domain.AdminProfileRepository
	seeder    *Seeder
	logger    zerolog.Logger
}

// NewProvisioner wires the provisioner.
func NewProvisioner(directory IdentityDirectory, profiles domain.AdminProfileRepository, seeder *Seeder, logger zerolog.Logger) *Provisioner {
	return &Provisioner{directory: directory, profiles: profiles, seeder: seeder, logger: logger}
}

// FindOrCreateUser returns the local user id for an email, provisioning an
// auto-confirmed passwordless identity when none exists.
func (p *Provisioner) FindOrCreateUser(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return "", domain.NewValidationError("invalid customer email")
	}

	profile, err := p.profiles.FindByEmail(ctx, email)
	if err == nil {
		return profile.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	user, err := p.directory.AdminFindUserByEmail(ctx, email)
	if err != nil {
		var apiErr *gotrue.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 404 {
			return "", err
		}
		user, err = p.directory.AdminCreateUser(ctx, email)
		if err != nil {
			return "", err
		}
		p.logger.Info().Str("email", email).Str("user_id", user.ID).Msg("provisioned auth identity for paying customer")
	}

	if err := p.profiles.Upsert(ctx, &domain.Profile{ID: user.ID, Email: email, Name: user.Name()}); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Activate flips the profile fast-path flag, provisions default categories
// and optionally sends a passwordless access link for onboarding. Seeding
// and magic-link failures are logged, not propagated: activation itself has
// already happened.
func (p *Provisioner) Activate(ctx context.Context, userID, email string, sendMagicLink bool) error {
	if err := p.profiles.SetSubscriptionStatus(ctx, userID, domain.ProfileStatusActive); err != nil {
		return err
	}
	if err := p.seeder.ProvisionDefaults(ctx, userID); err != nil {
		p.logger.Error().Err(err).Str("user_id", userID).Msg("default category provisioning failed")
	}
	if sendMagicLink {
		if err := p.directory.SendMagicLink(ctx, email); err != nil {
			p.logger.Error().Err(err).Str("email", email).Msg("magic link delivery failed")
		}
	}
	return nil
}

// Deactivate resets the profile fast-path flag. The CRM is the only writer
// expected to call this; without it the flag would grant access forever.
func (p *Provisioner) Deactivate(ctx context.Context, userID string) error {
	return p.profiles.SetSubscriptionStatus(ctx, userID, string(domain.SubscriptionInactive))
}
