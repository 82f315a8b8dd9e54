package subscribeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport запрос не дошёл до ответа: сеть, DNS, таймаут, отмена контекста.
	ErrTransport = errors.New("subscribe api unreachable")
	// ErrMalformedResponse успешный статус, но тело не JSON или в нём нет ссылки на оплату.
	ErrMalformedResponse = errors.New("malformed subscribe response")
)

// SubscribeRequest тело запроса на подписку
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse ответ API подписки.
// Ссылка на оплату бывает как на верхнем уровне, так и внутри data.
type SubscribeResponse struct {
	Success    *bool         `json:"success,omitempty"`
	Message    string        `json:"message,omitempty"`
	PaymentURL string        `json:"payment_url,omitempty"`
	Data       *ResponseData `json:"data,omitempty"`
}

// ResponseData вложенный блок данных ответа
type ResponseData struct {
	Email      string `json:"email,omitempty"`
	PaymentURL string `json:"payment_url,omitempty"`
}

// RedirectURL возвращает ссылку на оплату или пустую строку
func (r *SubscribeResponse) RedirectURL() string {
	if r.PaymentURL != "" {
		return r.PaymentURL
	}
	if r.Data != nil {
		return r.Data.PaymentURL
	}
	return ""
}

// APIError ответ получен, но API отказал в подписке
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("subscribe api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("subscribe api: status %d: %s", e.StatusCode, e.Message)
}
