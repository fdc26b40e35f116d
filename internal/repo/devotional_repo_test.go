package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

func strp(s string) *string { return &s }

func TestUpsertDevotional_CreateThenUpdateKeepsIdentity(t *testing.T) {
	db := newTestDB(t, &domain.Devotional{})
	ctx := context.Background()

	d := &domain.Devotional{Date: "2025-02-01", Verse: "For God so loved the world", Reference: "John 3:16"}
	action, err := UpsertDevotional(ctx, db, d)
	if err != nil || action != ActionCreated {
		t.Fatalf("expected created, got %q err=%v", action, err)
	}
	firstID, firstCreated := d.ID, d.CreatedAt

	upd := &domain.Devotional{
		Date:            "2025-02-01",
		Verse:           "For God so loved the world",
		Reference:       "John 3:16",
		VerseTranslated: strp("Porque Deus amou o mundo"),
		Summary:         strp("resumo"),
		RelatedVerses:   []domain.RelatedVerse{{Reference: "1 John 4:8", Text: "God is love"}},
	}
	action, err = UpsertDevotional(ctx, db, upd)
	if err != nil || action != ActionUpdated {
		t.Fatalf("expected updated, got %q err=%v", action, err)
	}
	if upd.ID != firstID {
		t.Fatalf("id changed: %s -> %s", firstID, upd.ID)
	}

	got, err := GetDevotionalByDate(ctx, db, "2025-02-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsComplete() || got.RelatedVerses[0].Reference != "1 John 4:8" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.CreatedAt.Equal(firstCreated) {
		t.Fatalf("created_at changed: %v -> %v", firstCreated, got.CreatedAt)
	}

	var n int64
	db.Model(&domain.Devotional{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one row per date, got %d", n)
	}
}

func TestDevotional_LatestListAndDeleteBefore(t *testing.T) {
	db := newTestDB(t, &domain.Devotional{})
	ctx := context.Background()

	if _, err := LatestDevotional(ctx, db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table, got %v", err)
	}

	for _, date := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		if _, err := UpsertDevotional(ctx, db, &domain.Devotional{Date: date, Verse: "v " + date}); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	latest, err := LatestDevotional(ctx, db)
	if err != nil || latest.Date != "2025-01-03" {
		t.Fatalf("expected latest 2025-01-03, got %+v err=%v", latest, err)
	}

	list, err := ListDevotionals(ctx, db, 2)
	if err != nil || len(list) != 2 || list[0].Date != "2025-01-03" || list[1].Date != "2025-01-02" {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	byID, err := GetDevotional(ctx, db, latest.ID)
	if err != nil || byID.Date != latest.Date {
		t.Fatalf("GetDevotional: %+v err=%v", byID, err)
	}

	n, err := DeleteDevotionalsBefore(ctx, db, "2025-01-03")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d err=%v", n, err)
	}
	if _, err := GetDevotionalByDate(ctx, db, "2025-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
