package counter

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
	storage "github.com/mnuddindev/pulsefeed/pkg/redis"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"github.com/redis/go-redis/v9"
)

const prefix = "counters:"

// RedisStore is the production counter cache. INCR/DECR give the
// required cross-process atomicity; keys carry no TTL.
type RedisStore struct {
	client *storage.RedisClient
}

func NewRedisStore(client *storage.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, prefix+key).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, utils.WrapError(err, utils.ErrInternalServerError.Code, "counter get failed")
	}
	return val, true, nil
}

func (s *RedisStore) RememberForever(ctx context.Context, key string, compute Compute) (int64, error) {
	val, ok, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if ok {
		return val, nil
	}

	val, err = compute(ctx)
	if err != nil {
		return 0, err
	}

	// SetNX keeps a concurrent toggle's increment from being clobbered:
	// if someone stored the key between our miss and now, theirs wins.
	if err := s.client.SetNX(ctx, prefix+key, val, 0).Err(); err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "counter store failed")
	}
	return s.client.Get(ctx, prefix+key).Int64()
}

func (s *RedisStore) Set(ctx context.Context, key string, value int64) error {
	if err := s.client.Set(ctx, prefix+key, value, 0).Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter set failed")
	}
	return nil
}

func (s *RedisStore) Increment(ctx context.Context, key string) error {
	if err := s.client.IncrBy(ctx, prefix+key, 1).Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter increment failed")
	}
	return nil
}

func (s *RedisStore) Decrement(ctx context.Context, key string) error {
	if err := s.client.DecrBy(ctx, prefix+key, 1).Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter decrement failed")
	}
	return nil
}

func (s *RedisStore) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = prefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter forget failed")
	}
	return nil
}

// ForgetScope drops every key ending in the target's segment, covering
// aggregates and the per-user flags whose user part the caller cannot
// enumerate.
func (s *RedisStore) ForgetScope(ctx context.Context, target models.Ref) error {
	pattern := prefix + "*:" + target.Key()
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter scan failed")
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "counter forget failed")
	}
	return nil
}
