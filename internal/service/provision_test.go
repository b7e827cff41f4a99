package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
)

type fakeDirectory struct {
	users      map[string]*gotrue.User // email -> user
	created    []string
	magicLinks []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]*gotrue.User{}}
}

func (f *fakeDirectory) AdminCreateUser(_ context.Context, email string) (*gotrue.User, error) {
	u := &gotrue.User{ID: "created-" + email, Email: email}
	f.users[email] = u
	f.created = append(f.created, email)
	return u, nil
}

func (f *fakeDirectory) AdminFindUserByEmail(_ context.Context, email string) (*gotrue.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, &gotrue.APIError{Status: 404, Message: "user not found"}
}

func (f *fakeDirectory) SendMagicLink(_ context.Context, email string) error {
	f.magicLinks = append(f.magicLinks, email)
	return nil
}

func newTestProvisioner(directory *fakeDirectory, profiles *fakeProfiles) *Provisioner {
	seeder := NewSeeder(&fakeCategories{}, &fakeSubcategories{}, zerolog.Nop())
	return NewProvisioner(directory, profiles, seeder, zerolog.Nop())
}

func TestFindOrCreateUserExistingProfile(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.byID["u1"] = &domain.Profile{ID: "u1", Email: "known@example.com"}
	directory := newFakeDirectory()

	p := newTestProvisioner(directory, profiles)

	id, err := p.FindOrCreateUser(context.Background(), "Known@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Empty(t, directory.created, "existing profile must not hit the directory")
}

func TestFindOrCreateUserExistingIdentity(t *testing.T) {
	profiles := newFakeProfiles()
	directory := newFakeDirectory()
	directory.users["payer@example.com"] = &gotrue.User{ID: "auth-1", Email: "payer@example.com"}

	p := newTestProvisioner(directory, profiles)

	id, err := p.FindOrCreateUser(context.Background(), "payer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "auth-1", id)
	assert.Empty(t, directory.created)
	// The profile mirror now exists for future webhook deliveries.
	_, err = profiles.FindByEmail(context.Background(), "payer@example.com")
	assert.NoError(t, err)
}

func TestFindOrCreateUserProvisionsIdentity(t *testing.T) {
	profiles := newFakeProfiles()
	directory := newFakeDirectory()

	p := newTestProvisioner(directory, profiles)

	id, err := p.FindOrCreateUser(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "created-new@example.com", id)
	assert.Equal(t, []string{"new@example.com"}, directory.created)
}

func TestFindOrCreateUserRejectsBadEmail(t *testing.T) {
	p := newTestProvisioner(newFakeDirectory(), newFakeProfiles())

	_, err := p.FindOrCreateUser(context.Background(), "not-an-email")
	assert.True(t, domain.IsValidationError(err))
}

func TestActivateAndDeactivate(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.byID["u1"] = &domain.Profile{ID: "u1", Email: "a@b.com"}
	directory := newFakeDirectory()

	p := newTestProvisioner(directory, profiles)

	require.NoError(t, p.Activate(context.Background(), "u1", "a@b.com", true))
	assert.Equal(t, domain.ProfileStatusActive, profiles.byID["u1"].SubscriptionStatus)
	assert.Equal(t, []string{"a@b.com"}, directory.magicLinks)

	require.NoError(t, p.Deactivate(context.Background(), "u1"))
	assert.Equal(t, string(domain.SubscriptionInactive), profiles.byID["u1"].SubscriptionStatus)
}
