package handlers

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/domain"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/infra"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/middleware"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/platform/gotrue"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/service"
)

// AuthPlatform is the slice of the auth platform client used by handlers.
type AuthPlatform interface {
	SignUp(ctx context.Context, email, password, name string) (*gotrue.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*gotrue.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*gotrue.Session, error)
	Recover(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, password string) error
}

// App is the handler container; everything it needs is injected from main.
// Admin* repositories are reachable only from webhook handlers and never
// from routes driven by end-user input.
type App struct {
	Logger zerolog.Logger
	Cfg    *infra.Config
	Redis  *redis.Client

	Auth AuthPlatform

	Profiles      domain.ProfileRepository
	AdminProfiles domain.AdminProfileRepository

	AdminSubscriptions domain.AdminSubscriptionRepository

	Transactions  domain.TransactionRepository
	Categories    domain.CategoryRepository
	Subcategories domain.SubcategoryRepository
	Budgets       domain.BudgetRepository
	Goals         domain.GoalRepository

	Notifications      domain.NotificationRepository
	AdminNotifications domain.AdminNotificationRepository

	Resolver    *service.SubscriptionResolver
	Budget      *service.BudgetEngine
	Seeder      *service.Seeder
	Provisioner *service.Provisioner

	StripeCustomers CustomerEmailLookup
}

func (a *App) currentUser(r *http.Request) *middleware.Identity {
	return middleware.IdentityFromContext(r.Context())
}
