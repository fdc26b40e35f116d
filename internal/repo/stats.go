package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// SavedVersesStats returns how many verses userID saved and when the most
// recent one was saved (nil when there are none).
func SavedVersesStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return savedStats[domain.SavedVerse](ctx, db, userID)
}

// SavedDevotionalsStats is SavedVersesStats for devotional bookmarks.
func SavedDevotionalsStats(ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	return savedStats[domain.SavedDevotional](ctx, db, userID)
}

func savedStats[T any](ctx context.Context, db *gorm.DB, userID string) (int64, *time.Time, error) {
	owned := func() *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Where("user_id = ?", userID)
	}
	var n int64
	if err := owned().Count(&n).Error; err != nil || n == 0 {
		return 0, nil, err
	}
	// MAX(saved_at) comes back as TEXT from SQLite; read the column itself.
	var latest []time.Time
	if err := owned().Order("saved_at DESC").Limit(1).Pluck("saved_at", &latest).Error; err != nil {
		return 0, nil, err
	}
	if len(latest) == 0 {
		return n, nil, nil
	}
	return n, &latest[0], nil
}
