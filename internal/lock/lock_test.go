package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/bible-study-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:lock_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestDB_AcquireExclusiveAndRelease(t *testing.T) {
	ctx := context.Background()
	l := NewDB(newTestDB(t))

	first, err := l.Acquire(ctx, "devotional:2025-01-01", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := l.Acquire(ctx, "devotional:2025-01-01", time.Minute); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
	if _, err := l.Acquire(ctx, "devotional:2025-01-02", time.Minute); err != nil {
		t.Fatalf("other key should be free: %v", err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("second release should be a no-op: %v", err)
	}
	if _, err := l.Acquire(ctx, "devotional:2025-01-01", time.Minute); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}

func TestDB_ExpiredLeaseIsTakenOver(t *testing.T) {
	ctx := context.Background()
	l := NewDB(newTestDB(t))
	base := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	stale, err := l.Acquire(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	fresh, err := l.Acquire(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("expired lease should be taken over: %v", err)
	}

	// The stale holder must not release the new owner's lease.
	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if _, err := l.Acquire(ctx, "k", time.Minute); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("lease should still belong to %s, got %v", fresh.Owner, err)
	}
}

func TestDB_ConcurrentAcquireSingleWinner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	// shared-cache memory databases report table locks instead of waiting
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	l := NewDB(db)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Acquire(ctx, "race", time.Minute); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestRedis_AcquireAndRelease(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := ConnectRedis(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer rdb.Close()

	l := NewRedis(rdb)
	key := "test:" + uuid.NewString()
	lease, err := l.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := l.Acquire(ctx, key, time.Minute); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
	if err := lease.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := l.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again.Release(ctx)
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	if _, err := ConnectRedis(context.Background(), "not-a-url://"); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestNilLeaseRelease(t *testing.T) {
	var l *Lease
	if err := l.Release(context.Background()); err != nil {
		t.Fatalf("nil lease release: %v", err)
	}
}
