// Package response содержит типы и функции для единых JSON-ответов
// HTTP-обработчиков: успех, ошибка, ошибка валидации.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-form/internal/form"
	"github.com/magabrotheeeer/subscription-form/internal/lib/emailaddr"
)

// Response стандартная структура JSON-ответа.
// Status: "OK" или "Error". Error: текст ошибки. Data: данные при успехе.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой msg.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError собирает текст из ошибок валидатора.
// Для правила email используется локализованный текст invalidEmail.
func ValidationError(errs validator.ValidationErrors, invalidEmail string) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case emailaddr.Tag:
			errsMsgs = append(errsMsgs, invalidEmail)
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusFor HTTP-статус для итога отправки формы
func StatusFor(outcome form.Outcome) int {
	switch outcome {
	case form.OutcomeRedirected:
		return http.StatusSeeOther
	case form.OutcomeInvalidEmail:
		return http.StatusUnprocessableEntity
	case form.OutcomeInProgress:
		return http.StatusConflict
	case form.OutcomeRejected:
		return http.StatusBadGateway
	case form.OutcomeNetworkError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
