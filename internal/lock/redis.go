package lock

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Redis is a SET NX lock for multi-instance deployments. Each acquisition
// stores a random token; release deletes the key only when the token still
// matches, so an expired-and-reacquired lock is never released by the
// previous holder.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

var releaseScript = redis.NewScript(`
    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    end
    return 0
`)

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	release := func() {
		if err := releaseScript.Run(context.Background(), r.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Printf("lock release failed for %s: %v", key, err)
		}
	}
	return release, nil
}

var _ Locker = (*Redis)(nil)
