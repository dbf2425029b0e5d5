// Package cache предоставляет кэш поверх Redis с in-memory фолбэком.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharebill/sharebill/internal/config"
	"github.com/sharebill/sharebill/internal/lib/sl"
)

// Store — минимальный контракт кэша, который используют сервисы.
type Store interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение пингом.
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
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// New возвращает Redis-кэш, а при недоступности Redis — in-memory фолбэк,
// чтобы приложение могло стартовать без внешнего кэша.
func New(ctx context.Context, cfg config.RedisConnection, log *slog.Logger) Store {
	redisCache, err := InitServer(ctx, cfg)
	if err != nil {
		log.Warn("redis is unavailable, falling back to in-memory cache", sl.Err(err))
		return NewMemory()
	}
	log.Info("connected to redis", slog.String("addr", cfg.AddressRedis))
	return redisCache
}

func (c *Cache) Get(key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	err = json.Unmarshal([]byte(val), result)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(context.Background(), key, jsonData, expiration).Err()
}

func (c *Cache) Invalidate(key string) error {
	return c.Db.Del(context.Background(), key).Err()
}
