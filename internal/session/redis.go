package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"bloodconnect/internal/config"
)

// RedisStore хранит сессии в Redis; TTL истекает на стороне сервера
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
	}
}

var _ Store = (*RedisStore)(nil)

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Put(ctx context.Context, token string, s Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(token), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Del(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func sessionKey(token string) string {
	return "session:" + token
}
