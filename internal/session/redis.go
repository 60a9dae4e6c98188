package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"go.uber.org/zap"
)

const keyPrefix = "session"

type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, id)
}

func (s *RedisStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id), data, s.ttl).Err()
}

func (s *RedisStore) Read(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	sess := decode(data)
	if sess == nil {
		s.logger.Warn("discarding unreadable session record", zap.String("key", s.key(id)))
	}
	return sess, nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
