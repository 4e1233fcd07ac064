package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 1セッション分のキー/値。値はJSONで保存する
type Scope interface {
	ID() string
	// 無ければfalse
	Get(ctx context.Context, name string, dst any) (bool, error)
	Set(ctx context.Context, name string, v any) error
	Delete(ctx context.Context, name string) error
	// セッションごと破棄
	Destroy(ctx context.Context) error
}

// セッションをRedisのハッシュ1つに保存する
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// DI
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// 新しいセッションID
func NewID() string {
	return uuid.NewString()
}

func (s *RedisStore) Scope(sessionID string) Scope {
	return &redisScope{store: s, id: sessionID}
}

func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

type redisScope struct {
	store *RedisStore
	id    string
}

func (r *redisScope) ID() string {
	return r.id
}

func (r *redisScope) Get(ctx context.Context, name string, dst any) (bool, error) {
	key := sessionKey(r.id)

	data, err := r.store.client.HGet(ctx, key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session get %s: %w", name, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("session decode %s: %w", name, err)
	}

	// アクセスのたびに期限を延ばす
	if err := r.store.client.Expire(ctx, key, r.store.ttl).Err(); err != nil {
		return false, fmt.Errorf("session touch: %w", err)
	}
	return true, nil
}

func (r *redisScope) Set(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", name, err)
	}

	key := sessionKey(r.id)
	_, err = r.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, name, data)
		pipe.Expire(ctx, key, r.store.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", name, err)
	}
	return nil
}

func (r *redisScope) Delete(ctx context.Context, name string) error {
	if err := r.store.client.HDel(ctx, sessionKey(r.id), name).Err(); err != nil {
		return fmt.Errorf("session delete %s: %w", name, err)
	}
	return nil
}

func (r *redisScope) Destroy(ctx context.Context) error {
	if err := r.store.client.Del(ctx, sessionKey(r.id)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}
