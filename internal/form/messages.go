package form

import (
	"fmt"

	"golang.org/x/text/language"
)

// Messages локализованные тексты формы
type Messages struct {
	Lang             string
	Title            string
	EmailLabel       string
	SubmitLabel      string
	InvalidEmail     string
	ErrorLabel       string
	SubscribeFailed  string
	NetworkError     string
	InProgress       string
	PaymentSucceeded string
	PaymentFailed    string
}

// Rejected текст статуса при отказе API: "<ErrorLabel>: <msg>".
// Пустое msg заменяется на SubscribeFailed.
func (m Messages) Rejected(msg string) string {
	if msg == "" {
		msg = m.SubscribeFailed
	}
	return m.ErrorLabel + ": " + msg
}

var (
	messagesZH = Messages{
		Lang:             "zh",
		Title:            "订阅OA通知",
		EmailLabel:       "邮箱",
		SubmitLabel:      "订阅并支付",
		InvalidEmail:     "请输入有效的邮箱地址",
		ErrorLabel:       "错误",
		SubscribeFailed:  "订阅失败",
		NetworkError:     "网络错误，请稍后再试",
		InProgress:       "订阅请求正在处理中，请稍候",
		PaymentSucceeded: "订阅成功！您将开始接收OA系统通知",
		PaymentFailed:    "支付失败，请重试或联系客服",
	}
	messagesEN = Messages{
		Lang:             "en",
		Title:            "Subscribe to OA notifications",
		EmailLabel:       "Email",
		SubmitLabel:      "Subscribe and pay",
		InvalidEmail:     "Please enter a valid email address",
		ErrorLabel:       "Error",
		SubscribeFailed:  "subscription failed",
		NetworkError:     "Network error, please try again later",
		InProgress:       "Your subscription request is already being processed",
		PaymentSucceeded: "Subscription successful! You will start receiving OA notifications",
		PaymentFailed:    "Payment failed, please try again or contact support",
	}
)

// Catalog набор локалей с выбором по Accept-Language
type Catalog struct {
	byTag    map[language.Tag]Messages
	matcher  language.Matcher
	fallback Messages
}

// NewCatalog создаёт каталог с локалью по умолчанию defaultLocale ("zh" или "en")
func NewCatalog(defaultLocale string) (*Catalog, error) {
	const op = "form.NewCatalog"

	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byTag := map[language.Tag]Messages{
		language.Chinese: messagesZH,
		language.English: messagesEN,
	}
	base, _ := def.Base()
	defTag := language.Make(base.String())
	fallback, ok := byTag[defTag]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported locale %q", op, defaultLocale)
	}

	// первый тег матчера используется, когда ничего не совпало
	tags := []language.Tag{defTag}
	for tag := range byTag {
		if tag != defTag {
			tags = append(tags, tag)
		}
	}
	return &Catalog{
		byTag:    byTag,
		matcher:  language.NewMatcher(tags),
		fallback: fallback,
	}, nil
}

// Default тексты локали по умолчанию
func (c *Catalog) Default() Messages {
	return c.fallback
}

// Match выбирает тексты по заголовку Accept-Language
func (c *Catalog) Match(acceptLanguage string) Messages {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	tag, _, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.fallback
	}
	base, _ := tag.Base()
	if m, ok := c.byTag[language.Make(base.String())]; ok {
		return m
	}
	return c.fallback
}
