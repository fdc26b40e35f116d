// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the search result cache store.
//
// Invariants kept here:
//   - one row per (term, language), enforced by a unique index;
//   - UpdateSearchCache only succeeds when next_offset still holds the value
//     the caller read, so concurrent writers cannot move it backwards or
//     double-append the same upstream page.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// GetSearchCache returns the cache entry for (term, language) or ErrNotFound.
func GetSearchCache(ctx context.Context, db *gorm.DB, term, language string) (*domain.SearchCacheEntry, error) {
	var e domain.SearchCacheEntry
	err := db.WithContext(ctx).
		Where("term = ? AND language = ?", term, language).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// TouchSearchCache bumps last_accessed_at for the entry.
func TouchSearchCache(ctx context.Context, db *gorm.DB, id string, now time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.SearchCacheEntry{}).
		Where("id = ?", id).
		UpdateColumn("last_accessed_at", now.UTC()).Error
}

// InsertSearchCache creates a new entry with created/updated/accessed = now.
// A concurrent insert of the same key yields ErrDuplicate.
func InsertSearchCache(ctx context.Context, db *gorm.DB, term, language string, results []json.RawMessage, total *int, nextOffset int, now time.Time) (*domain.SearchCacheEntry, error) {
	now = now.UTC()
	if results == nil {
		results = []json.RawMessage{}
	}
	e := &domain.SearchCacheEntry{
		ID:             uuid.NewString(),
		Term:           term,
		Language:       language,
		Results:        datatypes.JSONSlice[json.RawMessage](results),
		Total:          total,
		NextOffset:     nextOffset,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastAccessedAt: now,
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return e, nil
}

// UpdateSearchCache replaces results/total/next_offset of an existing entry
// and bumps updated_at/last_accessed_at. The write is conditional on
// next_offset still equal to expectedNextOffset; otherwise ErrStale.
func UpdateSearchCache(ctx context.Context, db *gorm.DB, id string, expectedNextOffset int, results []json.RawMessage, total *int, nextOffset int, now time.Time) error {
	now = now.UTC()
	res := db.WithContext(ctx).
		Model(&domain.SearchCacheEntry{}).
		Where("id = ? AND next_offset = ?", id, expectedNextOffset).
		Updates(map[string]any{
			"results":          datatypes.JSONSlice[json.RawMessage](results),
			"total":            total,
			"next_offset":      nextOffset,
			"updated_at":       now,
			"last_accessed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// CountSearchCache returns the number of cached (term, language) entries.
func CountSearchCache(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.SearchCacheEntry{}).Count(&n).Error
	return n, err
}

// EvictSearchCache removes entries not accessed since accessedBefore (skipped
// when zero) and then trims the least recently accessed rows until at most
// maxEntries remain (skipped when maxEntries <= 0). It returns the number of
// rows removed.
func EvictSearchCache(ctx context.Context, db *gorm.DB, accessedBefore time.Time, maxEntries int) (int64, error) {
	var removed int64
	tx := db.WithContext(ctx)

	if !accessedBefore.IsZero() {
		res := tx.Where("last_accessed_at < ?", accessedBefore.UTC()).Delete(&domain.SearchCacheEntry{})
		if res.Error != nil {
			return 0, res.Error
		}
		removed += res.RowsAffected
	}

	if maxEntries > 0 {
		count, err := CountSearchCache(ctx, db)
		if err != nil {
			return removed, err
		}
		if overflow := int(count) - maxEntries; overflow > 0 {
			oldest := tx.Model(&domain.SearchCacheEntry{}).
				Select("id").
				Order("last_accessed_at ASC, id ASC").
				Limit(overflow)
			res := tx.Where("id IN (?)", oldest).Delete(&domain.SearchCacheEntry{})
			if res.Error != nil {
				return removed, res.Error
			}
			removed += res.RowsAffected
		}
	}
	return removed, nil
}
