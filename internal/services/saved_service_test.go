package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/repo"
)

func TestSaveVerse_Idempotent(t *testing.T) {
	svc := &SavedService{DB: newTestDB(t)}
	ctx := context.Background()

	first, err := svc.SaveVerse(ctx, "u1", "John 3:16", "For God so loved", "", json.RawMessage(`{"id":"JHN.3.16"}`))
	if err != nil || first.Message != MsgSaved {
		t.Fatalf("first save: %+v %v", first, err)
	}
	second, err := svc.SaveVerse(ctx, "u1", "John 3:16", "For God so loved", "en", nil)
	if err != nil || second.Message != MsgAlreadySaved || second.ID != first.ID {
		t.Fatalf("second save: %+v %v", second, err)
	}

	verses, err := svc.ListVerses(ctx, "u1")
	if err != nil || len(verses) != 1 {
		t.Fatalf("expected one row, got %d (%v)", len(verses), err)
	}
	if verses[0].Language != domain.LangPT {
		t.Fatalf("language should default to pt, got %q", verses[0].Language)
	}

	ok, _ := svc.IsVerseSaved(ctx, "u1", "John 3:16", "For God so loved")
	if !ok {
		t.Fatalf("verse should be saved")
	}
	n, last, err := svc.VersesStats(ctx, "u1")
	if err != nil || n != 1 || last == nil {
		t.Fatalf("stats: %d %v %v", n, last, err)
	}

	res, _ := svc.UnsaveVerse(ctx, "u1", "John 3:16", "For God so loved")
	if !res.Success || res.Message != MsgRemoved {
		t.Fatalf("unsave: %+v", res)
	}
	res, _ = svc.UnsaveVerse(ctx, "u1", "John 3:16", "For God so loved")
	if res.Success || res.Message != MsgNotSaved {
		t.Fatalf("second unsave should report not saved: %+v", res)
	}
}

func TestSaveVerse_Validation(t *testing.T) {
	svc := &SavedService{DB: newTestDB(t)}
	ctx := context.Background()

	if _, err := svc.SaveVerse(ctx, "", "r", "t", "", nil); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.SaveVerse(ctx, "u1", " ", "t", "", nil); !errors.Is(err, ErrInvalidVerse) {
		t.Fatalf("expected ErrInvalidVerse, got %v", err)
	}
	if _, err := svc.SaveVerse(ctx, "u1", "r", "t", "de", nil); !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
	if ok, err := svc.IsVerseSaved(ctx, "", "r", "t"); ok || err != nil {
		t.Fatalf("anonymous query should be false")
	}
	if items, _ := svc.ListVerses(ctx, ""); len(items) != 0 {
		t.Fatalf("anonymous list should be empty")
	}
}

func TestSaveDevotional(t *testing.T) {
	db := newTestDB(t)
	svc := &SavedService{DB: db}
	ctx := context.Background()

	if _, err := svc.SaveDevotional(ctx, "u1", "missing"); !errors.Is(err, ErrDevotionalNotFound) {
		t.Fatalf("expected ErrDevotionalNotFound, got %v", err)
	}

	d := &domain.Devotional{
		Date:                "2025-06-01",
		Verse:               "For God so loved the world",
		Reference:           "John 3:16",
		VerseTranslated:     strp("Porque Deus amou o mundo"),
		ReferenceTranslated: strp("João 3:16"),
	}
	if _, err := repo.UpsertDevotional(ctx, db, d); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.SaveDevotional(ctx, "u1", d.ID)
	if err != nil || res.Message != MsgSaved {
		t.Fatalf("save: %+v %v", res, err)
	}
	again, _ := svc.SaveDevotional(ctx, "u1", d.ID)
	if again.Message != MsgAlreadySaved || again.ID != res.ID {
		t.Fatalf("second save: %+v", again)
	}

	list, err := svc.ListDevotionals(ctx, "u1", domain.LangPT)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d %v", len(list), err)
	}
	if list[0].Verse != "Porque Deus amou o mundo" || list[0].SavedAt.IsZero() {
		t.Fatalf("list should be localized with saved_at: %+v", list[0])
	}

	if ok, _ := svc.IsDevotionalSaved(ctx, "u2", d.ID); ok {
		t.Fatalf("bookmarks are per user")
	}

	res, _ = svc.UnsaveDevotional(ctx, "u1", d.ID)
	if !res.Success {
		t.Fatalf("unsave: %+v", res)
	}
	if _, err := svc.UnsaveDevotional(ctx, "", d.ID); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
