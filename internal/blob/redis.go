package blob

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps each blob in a hash holding the payload and its type.
type RedisStore struct {
	redis   *redis.Client
	prefix  string
	baseURL string
}

// NewRedisStore keys every blob as prefix + path.
func NewRedisStore(client *redis.Client, prefix, baseURL string) *RedisStore {
	return &RedisStore{
		redis:   client,
		prefix:  prefix,
		baseURL: baseURL,
	}
}

func (s *RedisStore) key(path string) string {
	return s.prefix + path
}

func (s *RedisStore) Upload(ctx context.Context, path string, obj Object) error {
	if err := s.redis.HSet(ctx, s.key(path), "content_type", obj.ContentType, "data", obj.Data).Err(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, path string) (Object, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(path)).Result()
	if err != nil {
		return Object{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, ok := fields["data"]
	if !ok {
		return Object{}, ErrNotFound
	}
	return Object{Data: []byte(data), ContentType: fields["content_type"]}, nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	if err := s.redis.Del(ctx, s.key(path)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) PublicURL(path string) string {
	return publicURL(s.baseURL, path)
}

var _ Store = (*RedisStore)(nil)
