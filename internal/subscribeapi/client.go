// Package subscribeapi клиент внешнего API подписки.
package subscribeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	subscribePath = "/api/subscribe"
	maxBodySize   = 1 << 20
)

// Client клиент API подписки
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет http.Client, например для тестов
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создаёт клиент для baseURL с общим таймаутом запроса
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// Subscribe отправляет один POST /api/subscribe с телом {"email": ...}.
//
// Ошибки: *APIError при отказе API, ErrMalformedResponse при успешном
// статусе без ссылки на оплату, ErrTransport если ответа нет.
func (c *Client) Subscribe(ctx context.Context, email string) (*SubscribeResponse, error) {
	const op = "subscribeapi.Subscribe"

	req, err := c.newRequest(ctx, http.MethodPost, subscribePath, SubscribeRequest{Email: email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	var body SubscribeResponse
	decodeErr := json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = body.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformedResponse, decodeErr)
	}
	if body.Success != nil && !*body.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	if body.RedirectURL() == "" {
		return nil, fmt.Errorf("%s: %w: payment_url is missing", op, ErrMalformedResponse)
	}
	return &body, nil
}
