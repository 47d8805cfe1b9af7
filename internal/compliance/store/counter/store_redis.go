package counter

import (
	"context"

	"github.com/redis/go-redis/v9"

	dErrors "vigil/pkg/domain-errors"
)

const counterKeyPrefix = "vigil:counter:"

// RedisStore allocates ids with INCR so multiple instances share one id
// space. This is the production-recommended implementation for distributed
// deployments.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Next(ctx context.Context, name string) (uint64, error) {
	n, err := s.client.Incr(ctx, counterKeyPrefix+name).Result()
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate id")
	}
	return uint64(n), nil
}
