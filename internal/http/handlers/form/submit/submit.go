// Package submit принимает отправку HTML-формы подписки.
//
// При успехе отвечает 303 на страницу оплаты, иначе снова рисует страницу
// с заполненными полями ошибки и статуса.
package submit

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/http/pages"
	"github.com/magabrotheeeer/subscription-form/internal/http/response"
	"github.com/magabrotheeeer/subscription-form/internal/lib/sl"
)

const maxFormSize = 64 << 10

type Catalog interface {
	Match(acceptLanguage string) form.Messages
}

type Renderer interface {
	RenderIndex(w io.Writer, data pages.IndexData) error
}

type Metrics interface {
	ObserveSubmit(outcome string)
}

type Handler struct {
	log        *slog.Logger
	subscriber form.Subscriber
	guard      form.Guard
	catalog    Catalog
	renderer   Renderer
	metrics    Metrics
}

func New(log *slog.Logger, subscriber form.Subscriber, guard form.Guard, catalog Catalog, renderer Renderer, metrics Metrics) *Handler {
	return &Handler{
		log:        log,
		subscriber: subscriber,
		guard:      guard,
		catalog:    catalog,
		renderer:   renderer,
		metrics:    metrics,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	msgs := h.catalog.Match(r.Header.Get("Accept-Language"))

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		state := &form.PageState{}
		state.SetEmailError(msgs.InvalidEmail)
		h.render(w, log, http.StatusBadRequest, msgs, state)
		return
	}

	email := r.PostForm.Get("email")
	state := &form.PageState{Email: email}
	ctl := form.NewController(log, state, h.subscriber, h.guard, msgs)

	outcome := ctl.Submit(r.Context(), email)
	h.metrics.ObserveSubmit(string(outcome))

	switch outcome {
	case form.OutcomeRedirected:
		http.Redirect(w, r, state.Location, http.StatusSeeOther)
		return
	case form.OutcomeInProgress:
		state.SetStatus(msgs.InProgress)
	}
	h.render(w, log, response.StatusFor(outcome), msgs, state)
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, msgs form.Messages, state *form.PageState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.RenderIndex(w, pages.NewIndexData(msgs, state)); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
