// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for daily
// devotionals.
//
// Error semantics follow the rest of the package: lookups of missing rows
// return ErrNotFound; other DB errors are propagated unchanged.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// Upsert outcomes reported by UpsertDevotional.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// GetDevotionalByDate returns the devotional for date (YYYY-MM-DD) or ErrNotFound.
func GetDevotionalByDate(ctx context.Context, db *gorm.DB, date string) (*domain.Devotional, error) {
	var d domain.Devotional
	if err := db.WithContext(ctx).Where("date = ?", date).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDevotional returns the devotional with the given id or ErrNotFound.
func GetDevotional(ctx context.Context, db *gorm.DB, id string) (*domain.Devotional, error) {
	var d domain.Devotional
	if err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// LatestDevotional returns the most recently created devotional or ErrNotFound.
func LatestDevotional(ctx context.Context, db *gorm.DB) (*domain.Devotional, error) {
	var d domain.Devotional
	if err := db.WithContext(ctx).Order("created_at DESC, date DESC").First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDevotionals returns up to limit devotionals, newest first.
func ListDevotionals(ctx context.Context, db *gorm.DB, limit int) ([]domain.Devotional, error) {
	var out []domain.Devotional
	q := db.WithContext(ctx).Order("created_at DESC, date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpsertDevotional inserts d, or overwrites the existing row for d.Date with
// d's fields. The existing row keeps its id and created_at. Callers are
// expected to pass an already merged record (patch semantics live in the
// service). It returns ActionCreated or ActionUpdated.
func UpsertDevotional(ctx context.Context, db *gorm.DB, d *domain.Devotional) (string, error) {
	now := time.Now().UTC()
	tx := db.WithContext(ctx)

	existing, err := GetDevotionalByDate(ctx, db, d.Date)
	switch {
	case errors.Is(err, ErrNotFound):
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.CreatedAt = now
		d.UpdatedAt = now
		cerr := tx.Create(d).Error
		if cerr == nil {
			return ActionCreated, nil
		}
		if !isUniqueViolation(cerr) {
			return "", cerr
		}
		// Lost an insert race for the same date: fall through to update.
		existing, err = GetDevotionalByDate(ctx, db, d.Date)
		if err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	}

	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = now
	err = tx.Model(&domain.Devotional{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"title":                d.Title,
			"content":              d.Content,
			"verse":                d.Verse,
			"reference":            d.Reference,
			"verse_translated":     d.VerseTranslated,
			"reference_translated": d.ReferenceTranslated,
			"summary":              d.Summary,
			"related_verses":       d.RelatedVerses,
			"raw_data":             d.RawData,
			"updated_at":           now,
		}).Error
	if err != nil {
		return "", err
	}
	return ActionUpdated, nil
}

// DeleteDevotionalsBefore removes devotionals whose date is strictly before
// the given YYYY-MM-DD date. Bookmarks go with them (FK cascade).
func DeleteDevotionalsBefore(ctx context.Context, db *gorm.DB, date string) (int64, error) {
	res := db.WithContext(ctx).Where("date < ?", date).Delete(&domain.Devotional{})
	return res.RowsAffected, res.Error
}
