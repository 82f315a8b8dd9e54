package form

// View элементы страницы, с которыми работает контроллер:
// поле ошибки email, поле статуса и переход на другую страницу.
type View interface {
	SetEmailError(msg string)
	SetStatus(msg string)
	Navigate(url string)
}

// PageState View в памяти. HTTP-обработчики рендерят по нему страницу или редирект.
type PageState struct {
	Email      string
	EmailError string
	Status     string
	StatusSet  bool
	Location   string
}

func (p *PageState) SetEmailError(msg string) {
	p.EmailError = msg
}

func (p *PageState) SetStatus(msg string) {
	p.Status = msg
	p.StatusSet = true
}

func (p *PageState) Navigate(url string) {
	p.Location = url
}
