package jsondict

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	// Context bounds every call made to Redis. Defaults to context.Background().
	Context context.Context

	// Prefix is prepended to every document key.
	Prefix string
}

// RedisStore keeps each record as a plain Redis string.
type RedisStore struct {
	rdb    redis.UniversalClient
	ctx    context.Context
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, o RedisOptions) *RedisStore {
	if o.Context == nil {
		o.Context = context.Background()
	}
	return &RedisStore{rdb: rdb, ctx: o.Context, prefix: o.Prefix}
}

func (s *RedisStore) Load(key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(s.ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Save(key string, data []byte) error {
	return s.rdb.Set(s.ctx, s.prefix+key, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
