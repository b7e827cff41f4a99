package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/infra"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/middleware"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/service"
)

// In-memory fakes for handler tests. Each implements the full repository
// interface; methods a given test never reaches return zero values.

type fakeCategoryRepo struct {
	items []domain.Category
}

func (f *fakeCategoryRepo) List(_ context.Context, userID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) Get(_ context.Context, userID, id string) (*domain.Category, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for i := range f.items {
		if f.items[i].ID == c.ID && f.items[i].UserID == c.UserID {
			f.items[i] = *c
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) Delete(_ context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCategoryRepo) ExistsByName(_ context.Context, userID string, t domain.CategoryType, name string) (bool, error) {
	for _, c := range f.items {
		if c.UserID == userID && c.Type == t && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type fakeSubcategoryRepo struct {
	items []domain.Subcategory
}

func (f *fakeSubcategoryRepo) List(_ context.Context, userID string) ([]domain.Subcategory, error) {
	var out []domain.Subcategory
	for _, s := range f.items {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubcategoryRepo) Get(_ context.Context, userID, id string) (*domain.Subcategory, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubcategoryRepo) Create(_ context.Context, s *domain.Subcategory) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	f.items = append(f.items, *s)
	return nil
}

func (f *fakeSubcategoryRepo) Update(_ context.Context, s *domain.Subcategory) (*domain.Subcategory, error) {
	for i := range f.items {
		if f.items[i].ID == s.ID && f.items[i].UserID == s.UserID {
			f.items[i] = *s
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubcategoryRepo) Delete(_ context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeTransactionRepo struct {
	items  []domain.Transaction
	counts map[string]int64
}

func (f *fakeTransactionRepo) List(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, int64, error) {
	var out []domain.Transaction
	for _, t := range f.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTransactionRepo) Get(_ context.Context, userID, id string) (*domain.Transaction, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTransactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()
	f.items = append(f.items, *t)
	return nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, userID, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			if patch.Amount != nil {
				f.items[i].Amount = *patch.Amount
			}
			if patch.Category != nil {
				f.items[i].Category = *patch.Category
			}
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTransactionRepo) Delete(_ context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeTransactionRepo) CountByCategoryName(_ context.Context, _ string, name string) (int64, error) {
	return f.counts[name], nil
}

func (f *fakeTransactionRepo) MonthlyTotals(context.Context, string, int, time.Month) (float64, float64, error) {
	return 0, 0, nil
}

func (f *fakeTransactionRepo) ExpensesByCategory(context.Context, string, int, time.Month) (map[string]float64, error) {
	return map[string]float64{}, nil
}

type fakeAdminProfileRepo struct {
	profiles map[string]*domain.Profile // keyed by id
}

func newFakeAdminProfileRepo() *fakeAdminProfileRepo {
	return &fakeAdminProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (f *fakeAdminProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range f.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminProfileRepo) Upsert(_ context.Context, p *domain.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeAdminProfileRepo) SetSubscriptionStatus(_ context.Context, userID, status string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.SubscriptionStatus = status
	return nil
}

type fakeAdminSubscriptionRepo struct {
	records map[string]*domain.Subscription // keyed provider|external id
}

func newFakeAdminSubscriptionRepo() *fakeAdminSubscriptionRepo {
	return &fakeAdminSubscriptionRepo{records: map[string]*domain.Subscription{}}
}

func subKey(provider domain.SubscriptionProvider, externalID string) string {
	return string(provider) + "|" + externalID
}

func (f *fakeAdminSubscriptionRepo) UpsertByExternalID(_ context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	key := subKey(sub.Provider, sub.ExternalID)
	if existing, ok := f.records[key]; ok {
		existing.Status = sub.Status
		existing.CurrentPeriodStart = sub.CurrentPeriodStart
		existing.CurrentPeriodEnd = sub.CurrentPeriodEnd
		return existing, nil
	}
	sub.ID = uuid.NewString()
	f.records[key] = sub
	return sub, nil
}

func (f *fakeAdminSubscriptionRepo) UpdateStatusByExternalID(_ context.Context, provider domain.SubscriptionProvider, externalID string, status domain.SubscriptionStatus) error {
	rec, ok := f.records[subKey(provider, externalID)]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = status
	return nil
}

func (f *fakeAdminSubscriptionRepo) ExpireLapsed(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type captureNotifications struct {
	items []domain.Notification
}

func (c *captureNotifications) Create(_ context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	c.items = append(c.items, *n)
	return nil
}

type fakeDirectory struct {
	users   map[string]*gotrue.User
	created []string
	links   []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]*gotrue.User{}}
}

func (f *fakeDirectory) AdminCreateUser(_ context.Context, email string) (*gotrue.User, error) {
	u := &gotrue.User{ID: "auth-" + email, Email: email}
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
	f.links = append(f.links, email)
	return nil
}

type fakeCustomerLookup struct {
	emails map[string]string
}

func (f *fakeCustomerLookup) CustomerEmail(_ context.Context, customerID string) (string, error) {
	if email, ok := f.emails[customerID]; ok {
		return email, nil
	}
	return "", domain.ErrNotFound
}

// newTestApp wires an App over in-memory fakes for webhook and CRUD tests.
func newTestApp(cfg *infra.Config) (*App, *fakeAdminProfileRepo, *fakeAdminSubscriptionRepo, *fakeDirectory) {
	if cfg == nil {
		cfg = &infra.Config{AppEnv: "production"}
	}
	adminProfiles := newFakeAdminProfileRepo()
	adminSubs := newFakeAdminSubscriptionRepo()
	directory := newFakeDirectory()

	seeder := service.NewSeeder(&fakeCategoryRepo{}, &fakeSubcategoryRepo{}, zerolog.Nop())
	provisioner := service.NewProvisioner(directory, adminProfiles, seeder, zerolog.Nop())

	app := &App{
		Logger:             zerolog.Nop(),
		Cfg:                cfg,
		AdminProfiles:      adminProfiles,
		AdminSubscriptions: adminSubs,
		Seeder:             seeder,
		Provisioner:        provisioner,
	}
	return app, adminProfiles, adminSubs, directory
}

// withIdentity attaches a verified caller the way the auth middleware does.
func withIdentity(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), &middleware.Identity{ID: userID}))
}
