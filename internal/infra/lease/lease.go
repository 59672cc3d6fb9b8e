// Package lease elects one instance to run a periodic job.
package lease

import (
	"context"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/gomodule/redigo/redis"
)

// acquireScript takes a free key or extends the current owner's hold, so
// the owner keeps the lease across ticks that land early.
var acquireScript = redis.NewScript(1, `
local current = redis.call("GET", KEYS[1])
if not current then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
  return 1
end
if current == ARGV[1] then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
  return 1
end
return 0`)

// releaseScript deletes the key only while this owner still holds it.
var releaseScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisLease struct {
	pool  *redis.Pool
	key   string
	owner string
}

func NewRedisPool(addr, password string, db int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     2,
		IdleTimeout: 5 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialPassword(password),
				redis.DialDatabase(db),
				redis.DialConnectTimeout(3*time.Second),
			)
		},
	}
}

func NewRedisLease(pool *redis.Pool, key, owner string) *RedisLease {
	return &RedisLease{pool: pool, key: key, owner: owner}
}

// TryAcquire reports whether this owner holds the key for the next ttl.
// A held lease is renewed.
func (l *RedisLease) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	conn, err := l.pool.GetContext(ctx)
	if err != nil {
		return false, errs.Wrap(err, "get redis connection")
	}
	defer conn.Close()

	granted, err := redis.Int(acquireScript.Do(conn, l.key, l.owner, ttl.Milliseconds()))
	if err != nil {
		return false, errs.Wrap(err, "acquire lease key")
	}
	return granted == 1, nil
}

func (l *RedisLease) Release(ctx context.Context) error {
	conn, err := l.pool.GetContext(ctx)
	if err != nil {
		return errs.Wrap(err, "get redis connection")
	}
	defer conn.Close()

	if _, err := releaseScript.Do(conn, l.key, l.owner); err != nil {
		return errs.Wrap(err, "release lease key")
	}
	return nil
}

// Local always grants the lease. Used when no Redis address is configured.
type Local struct{}

func (Local) TryAcquire(context.Context, time.Duration) (bool, error) { return true, nil }
func (Local) Release(context.Context) error                           { return nil }
