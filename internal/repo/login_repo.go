// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for daily logins.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// RecordLogin upserts the (userID, date) login row, setting login_time to at.
// It returns the row and ActionCreated or ActionUpdated.
func RecordLogin(ctx context.Context, db *gorm.DB, userID, date string, at time.Time) (*domain.DailyLogin, string, error) {
	at = at.UTC()
	tx := db.WithContext(ctx)

	var existing domain.DailyLogin
	err := tx.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error
	if err == nil {
		if err := tx.Model(&existing).UpdateColumn("login_time", at).Error; err != nil {
			return nil, "", err
		}
		existing.LoginTime = at
		return &existing, ActionUpdated, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	l := &domain.DailyLogin{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		LoginTime: at,
		CreatedAt: at,
	}
	if err := tx.Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			// Concurrent first login of the day; treat as an update.
			return RecordLogin(ctx, db, userID, date, at)
		}
		return nil, "", err
	}
	return l, ActionCreated, nil
}

// ListLogins returns all logins for userID, newest date first.
func ListLogins(ctx context.Context, db *gorm.DB, userID string) ([]domain.DailyLogin, error) {
	var out []domain.DailyLogin
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

// HasLogin reports whether userID has a login row for date.
func HasLogin(ctx context.Context, db *gorm.DB, userID, date string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.DailyLogin{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&n).Error
	return n > 0, err
}

// LoginDates returns the distinct login dates for userID, newest first.
func LoginDates(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.DailyLogin{}).
		Distinct("date").
		Where("user_id = ?", userID).
		Order("date DESC").
		Pluck("date", &out).Error
	return out, err
}
