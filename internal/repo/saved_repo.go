// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for saved
// devotionals and saved verses. All functions are scoped by user id.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// SavedDevotionalRow is a bookmark joined with its devotional.
type SavedDevotionalRow struct {
	domain.Devotional
	SavedAt time.Time
}

// FindSavedDevotional returns the bookmark for (userID, devotionalID) or ErrNotFound.
func FindSavedDevotional(ctx context.Context, db *gorm.DB, userID, devotionalID string) (*domain.SavedDevotional, error) {
	var s domain.SavedDevotional
	err := db.WithContext(ctx).
		Where("user_id = ? AND devotional_id = ?", userID, devotionalID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSavedDevotional inserts a bookmark; ErrDuplicate if it already exists.
func CreateSavedDevotional(ctx context.Context, db *gorm.DB, userID, devotionalID string) (*domain.SavedDevotional, error) {
	s := &domain.SavedDevotional{
		ID:           uuid.NewString(),
		UserID:       userID,
		DevotionalID: devotionalID,
		Type:         "devotional",
		SavedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return s, nil
}

// DeleteSavedDevotional removes a bookmark and reports whether a row existed.
func DeleteSavedDevotional(ctx context.Context, db *gorm.DB, userID, devotionalID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND devotional_id = ?", userID, devotionalID).
		Delete(&domain.SavedDevotional{})
	return res.RowsAffected > 0, res.Error
}

// ListSavedDevotionals returns the user's bookmarked devotionals joined with
// their saved_at, most recently saved first. Dangling bookmarks are skipped
// by the inner join.
func ListSavedDevotionals(ctx context.Context, db *gorm.DB, userID string) ([]SavedDevotionalRow, error) {
	var rows []SavedDevotionalRow
	err := db.WithContext(ctx).
		Table("saved_devotionals AS s").
		Select("d.*, s.saved_at AS saved_at").
		Joins("JOIN daily_devotionals AS d ON d.id = s.devotional_id").
		Where("s.user_id = ?", userID).
		Order("s.saved_at DESC").
		Scan(&rows).Error
	return rows, err
}

// FindSavedVerse returns the bookmark for (userID, reference, text) or ErrNotFound.
func FindSavedVerse(ctx context.Context, db *gorm.DB, userID, reference, text string) (*domain.SavedVerse, error) {
	var v domain.SavedVerse
	err := db.WithContext(ctx).
		Where("user_id = ? AND reference = ? AND text = ?", userID, reference, text).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateSavedVerse inserts a saved verse; ErrDuplicate if it already exists.
func CreateSavedVerse(ctx context.Context, db *gorm.DB, userID, reference, text, language string, raw datatypes.JSON) (*domain.SavedVerse, error) {
	v := &domain.SavedVerse{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reference: reference,
		Text:      text,
		Language:  language,
		RawData:   raw,
		SavedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return v, nil
}

// DeleteSavedVerse removes a saved verse and reports whether a row existed.
func DeleteSavedVerse(ctx context.Context, db *gorm.DB, userID, reference, text string) (bool, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND reference = ? AND text = ?", userID, reference, text).
		Delete(&domain.SavedVerse{})
	return res.RowsAffected > 0, res.Error
}

// ListSavedVerses returns the user's saved verses, most recently saved first.
func ListSavedVerses(ctx context.Context, db *gorm.DB, userID string) ([]domain.SavedVerse, error) {
	var out []domain.SavedVerse
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&out).Error
	return out, err
}
