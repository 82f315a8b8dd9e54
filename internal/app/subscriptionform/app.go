package subscriptionform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-form/internal/cache"
	"github.com/magabrotheeeer/subscription-form/internal/config"
	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-form/internal/http/pages"
	"github.com/magabrotheeeer/subscription-form/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-form/internal/metrics"
	"github.com/magabrotheeeer/subscription-form/internal/subscribeapi"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.subscriptionform.New"

	catalog, err := form.NewCatalog(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	renderer, err := pages.New()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		guard      form.Guard
		redisCache *cache.Cache
	)
	if cfg.AddressRedis != "" {
		// токен не должен истечь, пока запрос к API ещё может выполняться
		if cfg.GuardTTL < cfg.TimeoutAPI {
			return nil, fmt.Errorf("%s: redis guard_ttl %s is shorter than subscribe_api timeout %s", op, cfg.GuardTTL, cfg.TimeoutAPI)
		}
		redisCache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		guard = cache.NewGuard(redisCache, cfg.GuardTTL)
		logger.Info("using redis in-flight guard", slog.String("address", cfg.AddressRedis))
	} else {
		guard = form.NewLocalGuard()
		logger.Info("using in-process in-flight guard")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Subscriber: subscribeapi.NewClient(cfg.BaseURL, cfg.TimeoutAPI),
		Guard:      guard,
		Catalog:    catalog,
		Renderer:   renderer,
		Metrics:    metrics.New(registry),
		Gatherer:   registry,
		Limiter:    middlewarectx.NewIPLimiter(rate.Limit(cfg.RPS), cfg.Burst, cfg.IdleTTL),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  redisCache,
	}, nil
}

// Handler корневой обработчик приложения
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeCache()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeCache()
		return err
	}
}

func (a *App) closeCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
