// Package redis guarda los valores de sesión en Redis, una clave por valor.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"annotate-web/internal/domain/session"
)

const keyPrefix = "annotate:web:session:"

// Commands es el subconjunto de go-redis que usa el store.
type Commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
}

type SessionStore struct {
	rdb Commands
	ttl time.Duration
}

func NewSessionStore(rdb Commands, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Open crea el cliente y hace ping.
func Open(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func storageKey(sessionID, key string) string {
	return keyPrefix + sessionID + ":" + key
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	v, err := s.rdb.Get(ctx, storageKey(sessionID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	return s.rdb.Set(ctx, storageKey(sessionID, key), value, s.ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, storageKey(sessionID, k))
	}
	return s.rdb.Del(ctx, full...).Err()
}

// Touch renueva el TTL de cada clave de la sesión. EXPIRE sobre una clave
// inexistente no hace nada.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	if s.ttl <= 0 {
		return nil
	}
	for _, k := range session.Keys() {
		if err := s.rdb.Expire(ctx, storageKey(sessionID, k), s.ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}
