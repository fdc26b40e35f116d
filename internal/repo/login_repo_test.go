package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

func TestRecordLogin_CreateThenUpdate(t *testing.T) {
	db := newTestDB(t, &domain.DailyLogin{})
	ctx := context.Background()
	t1 := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(3 * time.Hour)

	l, action, err := RecordLogin(ctx, db, "u1", "2025-04-01", t1)
	if err != nil || action != ActionCreated {
		t.Fatalf("expected created, got %q err=%v", action, err)
	}
	l2, action, err := RecordLogin(ctx, db, "u1", "2025-04-01", t2)
	if err != nil || action != ActionUpdated {
		t.Fatalf("expected updated, got %q err=%v", action, err)
	}
	if l2.ID != l.ID || !l2.LoginTime.Equal(t2) {
		t.Fatalf("unexpected updated row: %+v", l2)
	}

	ok, err := HasLogin(ctx, db, "u1", "2025-04-01")
	if err != nil || !ok {
		t.Fatalf("HasLogin: %v err=%v", ok, err)
	}
	ok, _ = HasLogin(ctx, db, "u1", "2025-04-02")
	if ok {
		t.Fatalf("HasLogin reported a day without login")
	}
}

func TestListLoginsAndDates_NewestFirst(t *testing.T) {
	db := newTestDB(t, &domain.DailyLogin{})
	ctx := context.Background()
	at := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

	for _, d := range []string{"2025-04-02", "2025-04-01", "2025-04-03"} {
		if _, _, err := RecordLogin(ctx, db, "u1", d, at); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	_, _, _ = RecordLogin(ctx, db, "u2", "2025-04-05", at)

	logins, err := ListLogins(ctx, db, "u1")
	if err != nil || len(logins) != 3 || logins[0].Date != "2025-04-03" {
		t.Fatalf("ListLogins: %+v err=%v", logins, err)
	}
	dates, err := LoginDates(ctx, db, "u1")
	if err != nil {
		t.Fatalf("LoginDates: %v", err)
	}
	want := []string{"2025-04-03", "2025-04-02", "2025-04-01"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dates)
		}
	}
}
