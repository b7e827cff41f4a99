package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// In-memory repository fakes shared by the service tests.

type fakeProfiles struct {
	byID map[string]*domain.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[string]*domain.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpdateName(_ context.Context, userID, name string) (*domain.Profile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Name = name
	return p, nil
}

func (f *fakeProfiles) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range f.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfiles) SetSubscriptionStatus(_ context.Context, userID, status string) error {
	p, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.SubscriptionStatus = status
	return nil
}

type fakeSubscriptions struct {
	latest map[string]*domain.Subscription
}

func newFakeSubscriptions() *fakeSubscriptions {
	return &fakeSubscriptions{latest: map[string]*domain.Subscription{}}
}

func (f *fakeSubscriptions) LatestActive(_ context.Context, userID string) (*domain.Subscription, error) {
	s, ok := f.latest[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type fakeCategories struct {
	items []domain.Category
}

func (f *fakeCategories) List(_ context.Context, userID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) Get(_ context.Context, userID, id string) (*domain.Category, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategories) Create(_ context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for i := range f.items {
		if f.items[i].ID == c.ID && f.items[i].UserID == c.UserID {
			f.items[i] = *c
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategories) Delete(_ context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCategories) ExistsByName(_ context.Context, userID string, t domain.CategoryType, name string) (bool, error) {
	for _, c := range f.items {
		if c.UserID == userID && c.Type == t && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type fakeSubcategories struct {
	items []domain.Subcategory
}

func (f *fakeSubcategories) List(_ context.Context, userID string) ([]domain.Subcategory, error) {
	var out []domain.Subcategory
	for _, s := range f.items {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubcategories) Get(_ context.Context, userID, id string) (*domain.Subcategory, error) {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			return &f.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubcategories) Create(_ context.Context, s *domain.Subcategory) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	f.items = append(f.items, *s)
	return nil
}

func (f *fakeSubcategories) Update(_ context.Context, s *domain.Subcategory) (*domain.Subcategory, error) {
	for i := range f.items {
		if f.items[i].ID == s.ID && f.items[i].UserID == s.UserID {
			f.items[i] = *s
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSubcategories) Delete(_ context.Context, userID, id string) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeBudgets struct {
	configs map[string]*domain.BudgetConfig // keyed userID|year
	pockets []domain.BudgetPocket
}

func newFakeBudgets() *fakeBudgets {
	return &fakeBudgets{configs: map[string]*domain.BudgetConfig{}}
}

func budgetKey(userID string, year int) string {
	return userID + "|" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

func (f *fakeBudgets) GetConfig(_ context.Context, userID string, year int) (*domain.BudgetConfig, error) {
	cfg, ok := f.configs[budgetKey(userID, year)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}

func (f *fakeBudgets) UpsertConfig(_ context.Context, cfg *domain.BudgetConfig) (*domain.BudgetConfig, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	f.configs[budgetKey(cfg.UserID, cfg.Year)] = cfg
	return cfg, nil
}

func (f *fakeBudgets) ListPockets(_ context.Context, userID string) ([]domain.BudgetPocket, error) {
	var out []domain.BudgetPocket
	for _, p := range f.pockets {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBudgets) GetPocket(_ context.Context, userID, id string) (*domain.BudgetPocket, error) {
	for i := range f.pockets {
		if f.pockets[i].ID == id && f.pockets[i].UserID == userID {
			return &f.pockets[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBudgets) CreatePocket(_ context.Context, p *domain.BudgetPocket) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.pockets = append(f.pockets, *p)
	return nil
}

func (f *fakeBudgets) UpdatePocket(_ context.Context, p *domain.BudgetPocket) (*domain.BudgetPocket, error) {
	for i := range f.pockets {
		if f.pockets[i].ID == p.ID && f.pockets[i].UserID == p.UserID {
			f.pockets[i] = *p
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBudgets) DeletePocket(_ context.Context, userID, id string) error {
	for i := range f.pockets {
		if f.pockets[i].ID == id && f.pockets[i].UserID == userID {
			f.pockets = append(f.pockets[:i], f.pockets[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeBudgets) ReplacePockets(_ context.Context, userID string, pockets []domain.BudgetPocket) ([]domain.BudgetPocket, error) {
	kept := f.pockets[:0]
	for _, p := range f.pockets {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	f.pockets = kept
	out := make([]domain.BudgetPocket, 0, len(pockets))
	for i, p := range pockets {
		p.ID = uuid.NewString()
		p.SortOrder = i
		f.pockets = append(f.pockets, p)
		out = append(out, p)
	}
	return out, nil
}

type fakeTransactions struct {
	income   map[int]float64 // month -> income
	expense  map[int]float64
	byCat    map[string]float64
	byName   map[string]int64
	failWith error
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{
		income:  map[int]float64{},
		expense: map[int]float64{},
		byCat:   map[string]float64{},
		byName:  map[string]int64{},
	}
}

func (f *fakeTransactions) List(context.Context, string, domain.TransactionFilter) ([]domain.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeTransactions) Get(context.Context, string, string) (*domain.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeTransactions) Create(context.Context, *domain.Transaction) error { return nil }

func (f *fakeTransactions) Update(context.Context, string, string, domain.TransactionPatch) (*domain.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeTransactions) Delete(context.Context, string, string) error { return domain.ErrNotFound }

func (f *fakeTransactions) CountByCategoryName(_ context.Context, _ string, name string) (int64, error) {
	return f.byName[name], nil
}

func (f *fakeTransactions) MonthlyTotals(_ context.Context, _ string, _ int, month time.Month) (float64, float64, error) {
	if f.failWith != nil {
		return 0, 0, f.failWith
	}
	return f.income[int(month)], f.expense[int(month)], nil
}

func (f *fakeTransactions) ExpensesByCategory(context.Context, string, int, time.Month) (map[string]float64, error) {
	return f.byCat, nil
}
