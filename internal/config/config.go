// Package config предоставляет структуры и функции для загрузки конфига
// сервиса формы подписки.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Locale          string `yaml:"locale" env:"LOCALE" env-default:"zh"`
	HTTPServer      `yaml:"http_server"`
	SubscribeAPI    `yaml:"subscribe_api"`
	RedisConnection `yaml:"redis_connection"`
	RateLimit       `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// SubscribeAPI структура для настройки клиента API подписки
type SubscribeAPI struct {
	BaseURL    string        `yaml:"base_url" env:"SUBSCRIBE_API_BASE_URL" env-default:"http://127.0.0.1:5000"`
	TimeoutAPI time.Duration `yaml:"timeout" env:"SUBSCRIBE_API_TIMEOUT" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает, что защита от повторной отправки работает в памяти процесса.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT"`
	GuardTTL     time.Duration `yaml:"guard_ttl" env:"REDIS_GUARD_TTL" env-default:"30s"`
}

// RateLimit структура для настройки ограничения частоты отправки формы.
// Лимит считается отдельно для каждого адреса клиента.
type RateLimit struct {
	RPS     float64       `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst   int           `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
	IdleTTL time.Duration `yaml:"idle_ttl" env:"RATE_LIMIT_IDLE_TTL" env-default:"10m"`
}

// Load читает опциональный dotenv-файл (ENV_FILE, по умолчанию .env),
// затем YAML из CONFIG_PATH, если он задан. Переменные окружения
// перекрывают значения из файла.
func Load() (*Config, error) {
	const op = "config.Load"

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("%s: load %s: %w", op, envFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, configPath, err)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad вызывает Load и завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Locale: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SubscribeAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  GuardTTL: %s\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n"+
			"  IdleTTL: %s\n",
		c.Env,
		c.Locale,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.TimeoutAPI,
		c.AddressRedis,
		c.User,
		c.DB,
		c.GuardTTL,
		c.RPS,
		c.Burst,
		c.IdleTTL,
	)
}
