package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается для неизвестного или истёкшего токена
var ErrNotFound = errors.New("session not found")

// Session данные авторизованной сессии, хранимые по opaque-токену
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Store хранилище сессий с TTL
type Store interface {
	Put(ctx context.Context, token string, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, error)
	Del(ctx context.Context, token string) error
}
