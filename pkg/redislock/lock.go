package redislock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// releaseScript deletes the lock key only if it still carries our token, so
// a lock that expired and was re-acquired elsewhere is never released by the
// old holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker implements an advisory lock on top of Redis SET NX with a TTL.
type Locker struct {
	client *redis.Client
}

// New creates a Locker backed by the given Redis client
func New(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire tries to take the lock for key. On success it returns a release
// func; acquired is false when another holder has the lock. The TTL bounds
// how long a crashed holder can block others.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			slog.Warn("failed to release lock, waiting for TTL expiry", "key", key, "error", err)
		}
	}
	return release, true, nil
}
