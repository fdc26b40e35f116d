package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestSavedVersesStats(t *testing.T) {
	ctx := context.Background()

	if _, _, err := SavedVersesStats(ctx, newTestDB(t), "u1"); err == nil {
		t.Fatal("missing table must surface an error")
	}

	db := newTestDB(t, &domain.SavedVerse{})
	if n, last, err := SavedVersesStats(ctx, db, "u1"); err != nil || n != 0 || last != nil {
		t.Fatalf("empty: (%d, %v, %v)", n, last, err)
	}

	base := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	seed := []struct {
		user, ref string
		at        time.Time
	}{
		{"u1", "Jo 3:16", base},
		{"u1", "Sl 23:1", base.Add(48 * time.Hour)},
		{"u1", "Rm 8:28", base.Add(24 * time.Hour)},
		{"u2", "Jo 3:16", base.Add(96 * time.Hour)},
	}
	for i, s := range seed {
		v := &domain.SavedVerse{ID: fmt.Sprintf("v%d", i), UserID: s.user, Reference: s.ref, Text: s.ref, Language: domain.LangPT, SavedAt: s.at}
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, last, err := SavedVersesStats(ctx, db, "u1")
	if err != nil || n != 3 || last == nil || !last.Equal(base.Add(48*time.Hour)) {
		t.Fatalf("u1: (%d, %v, %v)", n, last, err)
	}
}

func TestSavedDevotionalsStats_Success(t *testing.T) {
	db := newTestDB(t, &domain.Devotional{}, &domain.SavedDevotional{})
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i, date := range []string{"2025-05-30", "2025-05-31"} {
		d := &domain.Devotional{ID: fmt.Sprintf("d%d", i), Date: date, Verse: "v", CreatedAt: now, UpdatedAt: now}
		if err := db.Create(d).Error; err != nil {
			t.Fatalf("seed devotional: %v", err)
		}
		s := &domain.SavedDevotional{ID: fmt.Sprintf("s%d", i), UserID: "u1", DevotionalID: d.ID, Type: "devotional", SavedAt: now.Add(time.Duration(i) * time.Hour)}
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed saved: %v", err)
		}
	}

	count, maxAt, err := SavedDevotionalsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("SavedDevotionalsStats error: %v", err)
	}
	if count != 2 || maxAt == nil || !maxAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected stats: count=%d maxAt=%v", count, maxAt)
	}

	count, maxAt, err = SavedDevotionalsStats(context.Background(), db, "nobody")
	if err != nil || count != 0 || maxAt != nil {
		t.Fatalf("expected empty stats for unknown user, got (%d, %v, %v)", count, maxAt, err)
	}
}
