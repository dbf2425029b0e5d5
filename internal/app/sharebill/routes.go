// Package sharebill предоставляет маршруты для основного приложения.
package sharebill

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sharebill/sharebill/internal/http/handlers/auth/changepassword"
	"github.com/sharebill/sharebill/internal/http/handlers/auth/login"
	"github.com/sharebill/sharebill/internal/http/handlers/auth/requestreset"
	"github.com/sharebill/sharebill/internal/http/handlers/auth/resetpassword"
	"github.com/sharebill/sharebill/internal/http/handlers/balance/balanceread"
	"github.com/sharebill/sharebill/internal/http/handlers/health"
	"github.com/sharebill/sharebill/internal/http/handlers/me"
	"github.com/sharebill/sharebill/internal/http/handlers/payment/paymentcreate"
	"github.com/sharebill/sharebill/internal/http/handlers/payment/paymentlist"
	"github.com/sharebill/sharebill/internal/http/handlers/payment/paymentremove"
	"github.com/sharebill/sharebill/internal/http/handlers/payment/paymentupdate"
	"github.com/sharebill/sharebill/internal/http/handlers/profile/profilecreate"
	"github.com/sharebill/sharebill/internal/http/handlers/profile/profileremove"
	"github.com/sharebill/sharebill/internal/http/handlers/profile/profileupdate"
	"github.com/sharebill/sharebill/internal/http/handlers/service/servicecreate"
	"github.com/sharebill/sharebill/internal/http/handlers/service/servicelist"
	"github.com/sharebill/sharebill/internal/http/handlers/service/serviceremove"
	"github.com/sharebill/sharebill/internal/http/handlers/service/serviceupdate"
	"github.com/sharebill/sharebill/internal/http/handlers/statement/itemupdate"
	"github.com/sharebill/sharebill/internal/http/handlers/statement/statementgenerate"
	"github.com/sharebill/sharebill/internal/http/handlers/statement/statementlist"
	"github.com/sharebill/sharebill/internal/http/handlers/subscription/subscriptioncreate"
	"github.com/sharebill/sharebill/internal/http/handlers/subscription/subscriptionlist"
	"github.com/sharebill/sharebill/internal/http/handlers/subscription/subscriptionremove"
	"github.com/sharebill/sharebill/internal/http/handlers/subscription/subscriptionupdate"
	"github.com/sharebill/sharebill/internal/http/handlers/user/usercreate"
	"github.com/sharebill/sharebill/internal/http/handlers/user/userlist"
	"github.com/sharebill/sharebill/internal/http/handlers/user/userremove"
	"github.com/sharebill/sharebill/internal/http/handlers/user/userupdate"
	"github.com/sharebill/sharebill/internal/http/middlewarectx"
	"github.com/sharebill/sharebill/internal/lib/jwt"
	"github.com/sharebill/sharebill/internal/services"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

// Services собирает бизнес-сервисы, которые нужны HTTP-слою.
type Services struct {
	Auth         *services.AuthService
	User         *services.UserService
	Catalog      *services.CatalogService
	Subscription *services.SubscriptionService
	Profile      *services.ProfileService
	Payment      *services.PaymentService
	Statement    *services.StatementService
	Balance      *services.BalanceService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, jwtMaker jwt.Maker, svcs *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/auth/request-reset", requestreset.New(logger, svcs.Auth).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, svcs.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/change-password", changepassword.New(logger, svcs.Auth).ServeHTTP)
			r.Get("/me", me.New(logger, svcs.Balance).ServeHTTP)
			r.Get("/balance", balanceread.New(logger, svcs.Balance).ServeHTTP)
			r.Get("/services", servicelist.New(logger, svcs.Catalog).ServeHTTP)

			// Административные конечные точки
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Post("/users", usercreate.New(logger, svcs.User).ServeHTTP)
				r.Get("/users", userlist.New(logger, svcs.User).ServeHTTP)
				r.Patch("/users/{id}", userupdate.New(logger, svcs.User).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, svcs.User).ServeHTTP)

				r.Post("/services", servicecreate.New(logger, svcs.Catalog).ServeHTTP)
				r.Get("/services", servicelist.New(logger, svcs.Catalog).ServeHTTP)
				r.Patch("/services/{id}", serviceupdate.New(logger, svcs.Catalog).ServeHTTP)
				r.Delete("/services/{id}", serviceremove.New(logger, svcs.Catalog).ServeHTTP)

				r.Post("/subscriptions", subscriptioncreate.New(logger, svcs.Subscription).ServeHTTP)
				r.Get("/subscriptions", subscriptionlist.New(logger, svcs.Subscription).ServeHTTP)
				r.Patch("/subscriptions/{id}", subscriptionupdate.New(logger, svcs.Subscription).ServeHTTP)
				r.Delete("/subscriptions/{id}", subscriptionremove.New(logger, svcs.Subscription).ServeHTTP)

				r.Post("/profiles", profilecreate.New(logger, svcs.Profile).ServeHTTP)
				r.Patch("/profiles/{id}", profileupdate.New(logger, svcs.Profile).ServeHTTP)
				r.Delete("/profiles/{id}", profileremove.New(logger, svcs.Profile).ServeHTTP)

				r.Post("/payments", paymentcreate.New(logger, svcs.Payment).ServeHTTP)
				r.Get("/payments", paymentlist.New(logger, svcs.Payment).ServeHTTP)
				r.Patch("/payments/{id}", paymentupdate.New(logger, svcs.Payment).ServeHTTP)
				r.Delete("/payments/{id}", paymentremove.New(logger, svcs.Payment).ServeHTTP)

				r.Post("/statements/generate", statementgenerate.New(logger, svcs.Statement).ServeHTTP)
				r.Get("/statements", statementlist.New(logger, svcs.Statement).ServeHTTP)
				r.Patch("/statements/items/{id}", itemupdate.New(logger, svcs.Statement).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
