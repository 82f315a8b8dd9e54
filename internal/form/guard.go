package form

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Guard токен "запрос уже выполняется" для ключа (email).
// Acquire возвращает ok=false, если токен уже занят. Release снимает
// токен, только если он всё ещё принадлежит token.
type Guard interface {
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// LocalGuard Guard в памяти процесса
type LocalGuard struct {
	mu       sync.Mutex
	inFlight map[string]string
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{inFlight: make(map[string]string)}
}

func (g *LocalGuard) Acquire(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return "", false, nil
	}
	token := uuid.NewString()
	g.inFlight[key] = token
	return token, true, nil
}

func (g *LocalGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight[key] == token {
		delete(g.inFlight, key)
	}
	return nil
}
