// Package api собирает HTTP API: хранилище, сервисы, обработчики и маршруты.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/alcateia-auth/internal/config"
	"github.com/magabrotheeeer/alcateia-auth/internal/http/middlewarectx"
)

// Handlers обработчики маршрутов API.
type Handlers struct {
	EmailVerify          http.HandlerFunc
	EmailVerifyCode      http.HandlerFunc
	EmailPasswordReset   http.HandlerFunc
	EmailVerifyResetCode http.HandlerFunc
	EmailWelcome         http.HandlerFunc

	Register http.Handler
	Me       http.Handler

	SubscriptionCreate http.Handler
	SubscriptionRead   http.Handler
	SessionCreate      http.Handler
	SessionList        http.Handler
	ContentAccess      http.Handler
	ContentList        http.Handler

	Webhook http.Handler
	Health  http.Handler
}

// RouterDeps зависимости middleware.
type RouterDeps struct {
	Log      *slog.Logger
	CORS     config.CORS
	Limit    config.RateLimit
	Auth     middlewarectx.TokenValidator
	Metrics  middlewarectx.RequestRecorder
	Gatherer prometheus.Gatherer
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, deps RouterDeps, h Handlers) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middlewarectx.CORS(deps.CORS),
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(deps.Metrics),
	)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Route("/api", func(r chi.Router) {
		r.NotFound(notFound)
		r.MethodNotAllowed(notFound)

		r.Route("/email", func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(deps.Log, deps.Limit))
			r.Post("/verify", h.EmailVerify)
			r.Post("/verify-code", h.EmailVerifyCode)
			r.Post("/password-reset", h.EmailPasswordReset)
			r.Post("/verify-reset-code", h.EmailVerifyResetCode)
			r.Post("/welcome", h.EmailWelcome)
		})

		r.Post("/auth/register", h.Register.ServeHTTP)
		r.With(middlewarectx.JWTMiddleware(deps.Auth, deps.Log)).Get("/auth/me", h.Me.ServeHTTP)

		r.Post("/subscriptions", h.SubscriptionCreate.ServeHTTP)
		r.Get("/subscriptions/{user_id}", h.SubscriptionRead.ServeHTTP)

		r.Post("/producer-sessions", h.SessionCreate.ServeHTTP)
		r.Get("/producer-sessions/{subscription_id}", h.SessionList.ServeHTTP)

		r.Post("/content/access", h.ContentAccess.ServeHTTP)
		r.Get("/content/{user_id}", h.ContentList.ServeHTTP)

		// Метод проверяет сам обработчик: не-POST получает 405.
		r.Handle("/webhooks/mercadopago", h.Webhook)
	})

	r.Get("/health", h.Health.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
