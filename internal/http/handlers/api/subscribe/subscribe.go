// Package subscribe JSON-вариант отправки формы для скриптовых клиентов.
package subscribe

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/http/response"
	"github.com/magabrotheeeer/subscription-form/internal/lib/emailaddr"
	"github.com/magabrotheeeer/subscription-form/internal/lib/sl"
)

const maxBodySize = 64 << 10

// Request тело запроса
type Request struct {
	Email string `json:"email" validate:"required,subscribe_email"`
}

type Catalog interface {
	Match(acceptLanguage string) form.Messages
}

type Metrics interface {
	ObserveSubmit(outcome string)
}

type Handler struct {
	log        *slog.Logger
	subscriber form.Subscriber
	guard      form.Guard
	catalog    Catalog
	metrics    Metrics
	validate   *validator.Validate
}

func New(log *slog.Logger, subscriber form.Subscriber, guard form.Guard, catalog Catalog, metrics Metrics) *Handler {
	return &Handler{
		log:        log,
		subscriber: subscriber,
		guard:      guard,
		catalog:    catalog,
		metrics:    metrics,
		validate:   emailaddr.NewValidator(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.api.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	msgs := h.catalog.Match(r.Header.Get("Accept-Language"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.metrics.ObserveSubmit(string(form.OutcomeInvalidEmail))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors), msgs.InvalidEmail))
		return
	}

	state := &form.PageState{Email: req.Email}
	outcome := form.NewController(log, state, h.subscriber, h.guard, msgs).Submit(r.Context(), req.Email)
	h.metrics.ObserveSubmit(string(outcome))

	switch outcome {
	case form.OutcomeRedirected:
		render.JSON(w, r, response.OKWithData(map[string]any{
			"payment_url": state.Location,
		}))
	case form.OutcomeInvalidEmail:
		render.Status(r, response.StatusFor(outcome))
		render.JSON(w, r, response.Error(state.EmailError))
	case form.OutcomeInProgress:
		render.Status(r, response.StatusFor(outcome))
		render.JSON(w, r, response.Error(msgs.InProgress))
	default:
		render.Status(r, response.StatusFor(outcome))
		render.JSON(w, r, response.Error(state.Status))
	}
}
