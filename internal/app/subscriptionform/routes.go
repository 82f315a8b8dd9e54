// Package subscriptionform собирает HTTP-приложение формы подписки.
package subscriptionform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/http/handlers/api/subscribe"
	"github.com/magabrotheeeer/subscription-form/internal/http/handlers/form/show"
	"github.com/magabrotheeeer/subscription-form/internal/http/handlers/form/submit"
	"github.com/magabrotheeeer/subscription-form/internal/http/handlers/health"
	"github.com/magabrotheeeer/subscription-form/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-form/internal/http/pages"
	"github.com/magabrotheeeer/subscription-form/internal/metrics"
)

// Deps зависимости маршрутов
type Deps struct {
	Subscriber form.Subscriber
	Guard      form.Guard
	Catalog    *form.Catalog
	Renderer   *pages.Renderer
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Limiter    *middlewarectx.IPLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/", show.New(logger, d.Catalog, d.Renderer, d.Metrics).ServeHTTP)
	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, d.Limiter))
		r.Post(pages.SubmitPath, submit.New(logger, d.Subscriber, d.Guard, d.Catalog, d.Renderer, d.Metrics).ServeHTTP)
		r.Post("/api/v1/subscribe", subscribe.New(logger, d.Subscriber, d.Guard, d.Catalog, d.Metrics).ServeHTTP)
	})
}
