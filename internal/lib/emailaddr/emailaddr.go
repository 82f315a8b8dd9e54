// Package emailaddr проверяет синтаксис адреса электронной почты формы подписки.
//
// Проверка только синтаксическая: local@domain.tld, где каждая часть
// непустая и не содержит пробельных символов и '@'. DNS/MX не проверяются.
package emailaddr

import (
	"regexp"

	"github.com/go-playground/validator"
)

// Tag имя правила для go-playground/validator.
const Tag = "subscribe_email"

// part символ адреса: не '@' и не пробельный символ в смысле JS \s
// (включая NBSP, U+3000, разделители строк и BOM).
const part = `[^\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}@]+`

var pattern = regexp.MustCompile(`^` + part + `@` + part + `\.` + part + `$`)

// Valid сообщает, похожа ли строка на адрес вида local@domain.tld.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// RegisterValidation регистрирует правило Tag в валидаторе.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(Tag, func(fl validator.FieldLevel) bool {
		return Valid(fl.Field().String())
	})
}

// NewValidator возвращает validator.New с зарегистрированным правилом Tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidation(v); err != nil {
		panic(err)
	}
	return v
}
