// Package lock provides expiring mutual-exclusion leases used to make sure a
// single worker runs the devotional pipeline for a given day, even when
// several instances (or a manual trigger and the scheduler) race.
//
// Two backends are available: DB stores leases in the application database
// with a conditional insert/update, Redis uses SET NX PX with an owner token
// and a compare-and-delete release. A lease expires on its own if its holder
// dies, so a crashed run never blocks the next one for longer than the TTL.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/repo"
)

// ErrNotAcquired is returned when another owner holds an unexpired lease.
var ErrNotAcquired = errors.New("lease held by another owner")

// Locker hands out leases.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
}

// Lease is a held lock. Release is safe to call more than once.
type Lease struct {
	Key   string
	Owner string

	release func(ctx context.Context) error
}

// Release gives the lease back if it is still ours.
func (l *Lease) Release(ctx context.Context) error {
	if l == nil || l.release == nil {
		return nil
	}
	fn := l.release
	l.release = nil
	return fn(ctx)
}

// DB is a Locker backed by the leases table.
type DB struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDB returns a database-backed Locker.
func NewDB(db *gorm.DB) *DB {
	return &DB{db: db, now: time.Now}
}

// Acquire takes key for ttl or returns ErrNotAcquired.
func (l *DB) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	owner := uuid.NewString()
	ok, err := repo.AcquireLease(ctx, l.db, key, owner, ttl, l.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &Lease{
		Key:   key,
		Owner: owner,
		release: func(ctx context.Context) error {
			return repo.ReleaseLease(ctx, l.db, key, owner)
		},
	}, nil
}

// releaseScript deletes the key only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker backed by a Redis server.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis returns a Redis-backed Locker. Keys are stored under "lock:".
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, prefix: "lock:"}
}

// ConnectRedis parses url, verifies connectivity and returns the client.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Acquire takes key for ttl or returns ErrNotAcquired.
func (l *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	owner := uuid.NewString()
	rkey := l.prefix + key
	ok, err := l.rdb.SetNX(ctx, rkey, owner, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &Lease{
		Key:   key,
		Owner: owner,
		release: func(ctx context.Context) error {
			return releaseScript.Run(ctx, l.rdb, []string{rkey}, owner).Err()
		},
	}, nil
}
