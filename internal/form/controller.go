// Package form контроллер формы подписки: проверка email, один запрос
// к API подписки и вывод результата в View.
package form

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/magabrotheeeer/subscription-form/internal/lib/emailaddr"
	"github.com/magabrotheeeer/subscription-form/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-form/internal/subscribeapi"
)

// Outcome итог одной отправки формы
type Outcome string

const (
	OutcomeRedirected   Outcome = "redirected"
	OutcomeInvalidEmail Outcome = "invalid_email"
	OutcomeInProgress   Outcome = "in_progress"
	OutcomeRejected     Outcome = "rejected"
	OutcomeNetworkError Outcome = "network_error"
)

// Значения параметра payment_status
const (
	PaymentStatusParam   = "payment_status"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Subscriber внешний API подписки
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (*subscribeapi.SubscribeResponse, error)
}

// Controller обслуживает одну страницу с формой
type Controller struct {
	log        *slog.Logger
	view       View
	subscriber Subscriber
	guard      Guard
	messages   Messages
	statusOnce sync.Once
}

// NewController создаёт контроллер для view
func NewController(log *slog.Logger, view View, subscriber Subscriber, guard Guard, messages Messages) *Controller {
	return &Controller{
		log:        log,
		view:       view,
		subscriber: subscriber,
		guard:      guard,
		messages:   messages,
	}
}

// Submit обрабатывает одну отправку формы
func (c *Controller) Submit(ctx context.Context, email string) Outcome {
	const op = "form.Submit"
	log := c.log.With(slog.String("op", op))

	if !emailaddr.Valid(email) {
		log.Debug("invalid email rejected")
		c.view.SetEmailError(c.messages.InvalidEmail)
		return OutcomeInvalidEmail
	}
	c.view.SetEmailError("")

	key := strings.ToLower(email)
	token, acquired, err := c.guard.Acquire(ctx, key)
	switch {
	case err != nil:
		log.Warn("in-flight guard unavailable, submitting anyway", sl.Err(err))
	case !acquired:
		log.Info("submission ignored, request already in flight")
		return OutcomeInProgress
	default:
		defer func() {
			// контекст запроса может быть уже отменён, токен всё равно надо снять
			if err := c.guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
				log.Warn("failed to release in-flight guard", sl.Err(err))
			}
		}()
	}

	resp, err := c.subscriber.Subscribe(ctx, email)
	if err == nil {
		log.Info("subscription accepted, redirecting to payment")
		c.view.Navigate(resp.RedirectURL())
		return OutcomeRedirected
	}

	var apiErr *subscribeapi.APIError
	switch {
	case errors.As(err, &apiErr):
		log.Info("subscription rejected", slog.Int("status", apiErr.StatusCode), sl.Err(err))
		c.view.SetStatus(c.messages.Rejected(apiErr.Message))
		return OutcomeRejected
	case errors.Is(err, subscribeapi.ErrMalformedResponse):
		log.Error("malformed subscribe response", sl.Err(err))
		c.view.SetStatus(c.messages.Rejected(""))
		return OutcomeRejected
	default:
		log.Error("subscribe request failed", sl.Err(err))
		c.view.SetStatus(c.messages.NetworkError)
		return OutcomeNetworkError
	}
}

// RenderPaymentStatus показывает результат оплаты из параметра payment_status.
// Выполняется не больше одного раза; возвращает распознанное значение или "".
func (c *Controller) RenderPaymentStatus(query url.Values) string {
	var status string
	c.statusOnce.Do(func() {
		switch query.Get(PaymentStatusParam) {
		case PaymentStatusSuccess:
			status = PaymentStatusSuccess
			c.view.SetStatus(c.messages.PaymentSucceeded)
		case PaymentStatusFailed:
			status = PaymentStatusFailed
			c.view.SetStatus(c.messages.PaymentFailed)
		}
	})
	return status
}
