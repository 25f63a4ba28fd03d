package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// RedisStore keeps session records in Redis with a TTL so abandoned
// sessions age out. A nil client is not accepted here; callers fall back to
// the memory store when Redis is unavailable, the same way the response
// cache and rate limiter degrade.
type RedisStore struct {
	RDB *redis.Client
	TTL time.Duration
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{RDB: rdb, TTL: ttl}
}

func (s *RedisStore) PutUser(ctx context.Context, u model.User) error {
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, userKeyPrefix+u.ID, body, s.TTL).Err()
}

func (s *RedisStore) GetUser(ctx context.Context, userID string) (model.User, error) {
	body, err := s.RDB.Get(ctx, userKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal(body, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	return s.RDB.Del(ctx, userKeyPrefix+userID).Err()
}

func (s *RedisStore) PutChat(ctx context.Context, cs model.ChatSession) error {
	body, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, chatKeyPrefix+cs.ID, body, s.TTL).Err()
}

func (s *RedisStore) GetChat(ctx context.Context, sessionID string) (model.ChatSession, error) {
	body, err := s.RDB.Get(ctx, chatKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return model.ChatSession{}, ErrNotFound
	}
	if err != nil {
		return model.ChatSession{}, err
	}
	var cs model.ChatSession
	if err := json.Unmarshal(body, &cs); err != nil {
		return model.ChatSession{}, err
	}
	return cs, nil
}
