// Package show отдаёт страницу с формой подписки и показывает результат
// оплаты из параметра payment_status.
package show

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/http/pages"
	"github.com/magabrotheeeer/subscription-form/internal/lib/sl"
)

// Catalog выбирает тексты по Accept-Language
type Catalog interface {
	Match(acceptLanguage string) form.Messages
}

// Renderer рисует страницу с формой
type Renderer interface {
	RenderIndex(w io.Writer, data pages.IndexData) error
}

// Metrics учитывает распознанные значения payment_status
type Metrics interface {
	ObservePaymentStatus(status string)
}

type Handler struct {
	log      *slog.Logger
	catalog  Catalog
	renderer Renderer
	metrics  Metrics
}

func New(log *slog.Logger, catalog Catalog, renderer Renderer, metrics Metrics) *Handler {
	return &Handler{
		log:      log,
		catalog:  catalog,
		renderer: renderer,
		metrics:  metrics,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.show"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	msgs := h.catalog.Match(r.Header.Get("Accept-Language"))
	state := &form.PageState{}
	// страница только читает URL, отправки тут нет
	status := form.NewController(log, state, nil, nil, msgs).RenderPaymentStatus(r.URL.Query())
	if status != "" {
		log.Info("payment status rendered", slog.String("payment_status", status))
	}
	h.metrics.ObservePaymentStatus(status)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderIndex(w, pages.NewIndexData(msgs, state)); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
