// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides a compare-and-swap lease table used for
// cross-process mutual exclusion.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

// AcquireLease tries to take the named lease for owner until now+ttl.
//
// It succeeds when no row exists (insert), or when the existing row has
// expired or already belongs to owner (conditional update). Both paths are
// single statements, so two contenders cannot both win.
func AcquireLease(ctx context.Context, db *gorm.DB, key, owner string, ttl time.Duration, now time.Time) (bool, error) {
	now = now.UTC()
	expires := now.Add(ttl)
	tx := db.WithContext(ctx)

	err := tx.Create(&domain.Lease{Key: key, Owner: owner, ExpiresAt: expires, CreatedAt: now}).Error
	if err == nil {
		return true, nil
	}
	if !isUniqueViolation(err) {
		return false, err
	}

	res := tx.Model(&domain.Lease{}).
		Where("key = ? AND (expires_at <= ? OR owner = ?)", key, now, owner).
		Updates(map[string]any{"owner": owner, "expires_at": expires, "created_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseLease deletes the lease if owner still holds it.
func ReleaseLease(ctx context.Context, db *gorm.DB, key, owner string) error {
	return db.WithContext(ctx).
		Where("key = ? AND owner = ?", key, owner).
		Delete(&domain.Lease{}).Error
}
