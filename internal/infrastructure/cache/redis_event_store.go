package cache

import (
	"context"
	"time"

	"careconnect/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const processedKeyPrefix = "careconnect:webhook:processed:"

// RedisProcessedEventStore remembers handled provider notifications.
type RedisProcessedEventStore struct {
	client redis.Cmdable
}

var _ interfaces.IProcessedEventStore = (*RedisProcessedEventStore)(nil)

func NewRedisProcessedEventStore(client redis.Cmdable) *RedisProcessedEventStore {
	return &RedisProcessedEventStore{client: client}
}

func (s *RedisProcessedEventStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, processedKey(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisProcessedEventStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, processedKey(key), time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

func processedKey(key string) string {
	return processedKeyPrefix + key
}
