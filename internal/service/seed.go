package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
)

// Seeder provisions the default category set for new accounts. Provisioning
// runs at registration and at webhook activation, never as a side effect of
// a read. It is idempotent: names are deduplicated case-insensitively
// against existing rows before insert, so redelivered webhooks and repeated
// activations are harmless.
type Seeder struct {
	categories    domain.CategoryRepository
	subcategories domain.SubcategoryRepository
	logger        zerolog.Logger
}

// NewSeeder wires the seeder.
func NewSeeder(categories domain.CategoryRepository, subcategories domain.SubcategoryRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{categories: categories, subcategories: subcategories, logger: logger}
}

// ProvisionDefaults inserts any missing default categories and subcategories
// for the user.
func (s *Seeder) ProvisionDefaults(ctx context.Context, userID string) error {
	existing, err := s.categories.List(ctx, userID)
	if err != nil {
		return err
	}
	haveCategory := make(map[string]string, len(existing)) // key -> category id
	for _, c := range existing {
		haveCategory[categoryKey(c.Name, c.Type)] = c.ID
	}

	existingSubs, err := s.subcategories.List(ctx, userID)
	if err != nil {
		return err
	}
	haveSub := make(map[string]struct{}, len(existingSubs))
	for _, sc := range existingSubs {
		haveSub[strings.ToLower(sc.Name)] = struct{}{}
	}

	for _, seed := range domain.DefaultCategories {
		key := categoryKey(seed.Name, seed.Type)
		categoryID, ok := haveCategory[key]
		if !ok {
			c := domain.Category{
				UserID: userID,
				Name:   seed.Name,
				Type:   seed.Type,
				Icon:   seed.Icon,
				Color:  seed.Color,
			}
			if err := s.categories.Create(ctx, &c); err != nil {
				return err
			}
			categoryID = c.ID
			haveCategory[key] = categoryID
		}

		for _, subName := range seed.Subcategories {
			if _, ok := haveSub[strings.ToLower(subName)]; ok {
				continue
			}
			sc := domain.Subcategory{
				UserID:     userID,
				CategoryID: categoryID,
				Name:       subName,
			}
			if err := s.subcategories.Create(ctx, &sc); err != nil {
				return err
			}
			haveSub[strings.ToLower(subName)] = struct{}{}
		}
	}

	s.logger.Debug().Str("user_id", userID).Msg("default categories provisioned")
	return nil
}

func categoryKey(name string, t domain.CategoryType) string {
	return strings.ToLower(name) + "|" + string(t)
}
