package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

func TestIdempotency_Lifecycle(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	k := IdemKey{UserID: "u9", Scope: "POST /saved/verses", Key: "k9"}

	if _, err := GetIdempotency(ctx, db, k, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty table: %v", err)
	}

	rec, err := CreateIdempotency(ctx, db, k, 201, []byte(`{"saved":true}`), now, 90*time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == "" || !rec.ExpiresAt.Equal(now.Add(90*time.Minute)) {
		t.Fatalf("record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, k, now.Add(time.Hour))
	if err != nil || got.ID != rec.ID || got.Status != 201 || string(got.Body) != `{"saved":true}` {
		t.Fatalf("readback: %+v %v", got, err)
	}
	if _, err := GetIdempotency(ctx, db, k, now.Add(90*time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record must expire at ExpiresAt, got %v", err)
	}

	if _, err := CreateIdempotency(ctx, db, k, 200, nil, now, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second write: %v", err)
	}

	others := []IdemKey{
		{UserID: "u9", Scope: "POST /saved/devotionals/d1", Key: "k9"},
		{UserID: "u10", Scope: "POST /saved/verses", Key: "k9"},
	}
	for _, o := range others {
		if _, err := CreateIdempotency(ctx, db, o, 201, nil, now, time.Hour); err != nil {
			t.Fatalf("%+v should be independent: %v", o, err)
		}
	}
}

func TestGetIdempotency_BlankScopeOrKey(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	for _, k := range []IdemKey{{UserID: "u1", Scope: "  ", Key: "k1"}, {UserID: "u1", Scope: "POST /x"}} {
		if rec, err := GetIdempotency(context.Background(), db, k, time.Now()); rec != nil || !errors.Is(err, ErrNotFound) {
			t.Fatalf("%+v: (%v, %v)", k, rec, err)
		}
	}
}

func TestCreateIdempotency_MissingTable(t *testing.T) {
	db := newTestDB(t)
	_, err := CreateIdempotency(context.Background(), db, IdemKey{UserID: "u", Scope: "POST /x", Key: "k"}, 200, nil, time.Now(), time.Minute)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected a plain storage error, got %v", err)
	}
}

func TestPurgeIdempotency_RemovesExpiredOnly(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()
	for key, ttl := range map[string]time.Duration{"gone": -time.Minute, "kept": time.Hour} {
		if _, err := CreateIdempotency(ctx, db, IdemKey{UserID: "u", Scope: "POST /x", Key: key}, 200, nil, now, ttl); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	n, err := PurgeIdempotency(ctx, db, now)
	if err != nil || n != 1 {
		t.Fatalf("purged %d, err=%v", n, err)
	}
	if _, err := GetIdempotency(ctx, db, IdemKey{UserID: "u", Scope: "POST /x", Key: "kept"}, now); err != nil {
		t.Fatalf("live record removed: %v", err)
	}
}
