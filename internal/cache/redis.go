// Package cache подключение к redis и распределённый Guard формы подписки.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscription-form/internal/config"
)

const guardPrefix = "subscribe:inflight:"

type Cache struct {
	Db *redis.Client
}

func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

func (c *Cache) Close() error {
	return c.Db.Close()
}

// releaseScript удаляет ключ, только если в нём лежит токен вызывающего.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Guard токен "запрос выполняется" в redis: SET NX с TTL, чтобы упавший
// держатель не блокировал email навсегда. TTL должен быть не меньше
// таймаута запроса к API подписки.
type Guard struct {
	cache *Cache
	ttl   time.Duration
}

func NewGuard(c *Cache, ttl time.Duration) *Guard {
	return &Guard{cache: c, ttl: ttl}
}

func (g *Guard) Acquire(ctx context.Context, key string) (string, bool, error) {
	const op = "cache.Guard.Acquire"
	token := uuid.NewString()
	ok, err := g.cache.Db.SetNX(ctx, guardPrefix+key, token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release снимает токен, если он всё ещё принадлежит token.
// Просроченный и занятый другим держателем ключ не трогается.
func (g *Guard) Release(ctx context.Context, key, token string) error {
	const op = "cache.Guard.Release"
	if err := releaseScript.Run(ctx, g.cache.Db, []string{guardPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
