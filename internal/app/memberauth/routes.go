// Package memberauth предоставляет маршруты сервиса аутентификации.
package memberauth

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/auth/updateprofile"
	"github.com/magabrotheeeer/member-auth/internal/http/handlers/health"
	"github.com/magabrotheeeer/member-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/member-auth/internal/models"
	services "github.com/magabrotheeeer/member-auth/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v2/auth", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/forgotpassword", forgotpassword.New(logger, authService).ServeHTTP)
		r.Put("/resetpassword/{resettoken}", resetpassword.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RequireRole(logger, models.RoleUser, models.RolePublisher))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/updateprofile", updateprofile.New(logger, authService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
