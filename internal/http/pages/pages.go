// Package pages HTML-страница формы подписки.
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/magabrotheeeer/subscription-form/internal/form"
)

// SubmitPath адрес, на который отправляется форма
const SubmitPath = "/subscribe"

//go:embed templates/*.html
var templatesFS embed.FS

// IndexData данные страницы с формой
type IndexData struct {
	Messages   form.Messages
	Action     string
	Email      string
	EmailError string
	Status     string
}

// NewIndexData собирает данные страницы из состояния контроллера
func NewIndexData(msgs form.Messages, state *form.PageState) IndexData {
	return IndexData{
		Messages:   msgs,
		Action:     SubmitPath,
		Email:      state.Email,
		EmailError: state.EmailError,
		Status:     state.Status,
	}
}

type Renderer struct {
	index *template.Template
}

func New() (*Renderer, error) {
	const op = "pages.New"
	index, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Renderer{index: index}, nil
}

func (r *Renderer) RenderIndex(w io.Writer, data IndexData) error {
	return r.index.Execute(w, data)
}
