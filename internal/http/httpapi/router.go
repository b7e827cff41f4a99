package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/http/handlers"
	"github.com/tecnologiasabiduria/finance-dashboard-api/internal/infra/geoip"
	mw "github.com/tecnologiasabiduria/finance-dashboard-api/internal/middleware"
)

// NewRouter assembles the HTTP surface. Webhooks stay outside the auth
// stack; the ledger and dashboard additionally require a resolved
// subscription, other authenticated areas only a valid token.
func NewRouter(app *handlers.App, geo geoip.CountryResolver) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(app.Logger, geo))
	r.Use(chimw.Recoverer)
	r.Use(mw.CORS(app.Cfg.AllowedOrigins))
	r.Use(mw.RateLimit(app.Cfg.RateLimitPerMin, time.Minute, app.Redis))

	r.Get("/health", app.Health)

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/stripe", app.StripeWebhook)
		r.Post("/ghl", app.GHLWebhook)
		r.Post("/ghl/notifications", app.GHLNotificationWebhook)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.Post("/refresh", app.Refresh)
		r.Post("/forgot-password", app.ForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(app.Cfg.AuthJWTSecret))
			r.Get("/me", app.Me)
			r.Post("/change-password", app.ChangePassword)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(app.Cfg.AuthJWTSecret))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", app.GetProfile)
			r.Put("/", app.UpdateProfile)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.ListCategories)
			r.Post("/", app.CreateCategory)
			r.Put("/{id}", app.UpdateCategory)
			r.Delete("/{id}", app.DeleteCategory)
		})

		r.Route("/subcategories", func(r chi.Router) {
			r.Get("/", app.ListSubcategories)
			r.Post("/", app.CreateSubcategory)
			r.Put("/{id}", app.UpdateSubcategory)
			r.Delete("/{id}", app.DeleteSubcategory)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", app.ListGoals)
			r.Post("/", app.CreateGoal)
			r.Put("/{id}", app.UpdateGoal)
			r.Delete("/{id}", app.DeleteGoal)
		})

		r.Route("/budget", func(r chi.Router) {
			r.Get("/config", app.GetBudgetConfig)
			r.Put("/config", app.PutBudgetConfig)
			r.Get("/overview", app.BudgetOverview)
			r.Route("/pockets", func(r chi.Router) {
				r.Get("/", app.ListPockets)
				r.Post("/", app.CreatePocket)
				r.Post("/bulk", app.ReplacePockets)
				r.Put("/{id}", app.UpdatePocket)
				r.Delete("/{id}", app.DeletePocket)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", app.ListNotifications)
			r.Get("/unread-count", app.UnreadNotificationCount)
			r.Post("/{id}/read", app.MarkNotificationRead)
			r.Post("/read-all", app.MarkAllNotificationsRead)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSubscription(app.Resolver))

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", app.ListTransactions)
				r.Post("/", app.CreateTransaction)
				r.Get("/{id}", app.GetTransaction)
				r.Put("/{id}", app.UpdateTransaction)
				r.Delete("/{id}", app.DeleteTransaction)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/summary", app.DashboardSummary)
				r.Get("/stats", app.DashboardStats)
			})
		})
	})

	return r
}
