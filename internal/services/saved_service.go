// Package services – SavedService
//
// This file implements the saved-items ledger: per-user bookmarks of
// devotionals and verses. Save and unsave are idempotent; queries made
// without an identity return empty results, mutations fail with
// ErrNotAuthenticated.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/repo"
)

// Ledger messages.
const (
	MsgSaved        = "saved"
	MsgAlreadySaved = "already saved"
	MsgRemoved      = "removed"
	MsgNotSaved     = "not saved"
)

// SaveResult is the outcome of a save/unsave call.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// SavedDevotional is a bookmarked devotional with its save time.
type SavedDevotional struct {
	domain.Devotional
	SavedAt time.Time `json:"saved_at"`
}

// SavedService manages user bookmarks.
type SavedService struct {
	DB *gorm.DB
}

// IsDevotionalSaved reports whether userID bookmarked devotionalID.
func (s *SavedService) IsDevotionalSaved(ctx context.Context, userID, devotionalID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, err := repo.FindSavedDevotional(ctx, s.DB, userID, devotionalID)
	return found(err)
}

// SaveDevotional bookmarks an existing devotional.
func (s *SavedService) SaveDevotional(ctx context.Context, userID, devotionalID string) (*SaveResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if _, err := repo.GetDevotional(ctx, s.DB, devotionalID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDevotionalNotFound
		}
		return nil, err
	}

	if cur, err := repo.FindSavedDevotional(ctx, s.DB, userID, devotionalID); err == nil {
		return &SaveResult{Success: true, Message: MsgAlreadySaved, ID: cur.ID}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	row, err := repo.CreateSavedDevotional(ctx, s.DB, userID, devotionalID)
	if errors.Is(err, repo.ErrDuplicate) {
		// a concurrent save won
		cur, ferr := repo.FindSavedDevotional(ctx, s.DB, userID, devotionalID)
		if ferr != nil {
			return nil, ferr
		}
		return &SaveResult{Success: true, Message: MsgAlreadySaved, ID: cur.ID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SaveResult{Success: true, Message: MsgSaved, ID: row.ID}, nil
}

// UnsaveDevotional removes a bookmark; a missing one is reported, not failed.
func (s *SavedService) UnsaveDevotional(ctx context.Context, userID, devotionalID string) (*SaveResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	ok, err := repo.DeleteSavedDevotional(ctx, s.DB, userID, devotionalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SaveResult{Success: false, Message: MsgNotSaved}, nil
	}
	return &SaveResult{Success: true, Message: MsgRemoved}, nil
}

// ListDevotionals returns the user's bookmarked devotionals, newest save
// first, localized to language.
func (s *SavedService) ListDevotionals(ctx context.Context, userID, language string) ([]SavedDevotional, error) {
	if userID == "" {
		return []SavedDevotional{}, nil
	}
	rows, err := repo.ListSavedDevotionals(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SavedDevotional, 0, len(rows))
	for i := range rows {
		out = append(out, SavedDevotional{
			Devotional: *Localize(&rows[i].Devotional, language),
			SavedAt:    rows[i].SavedAt,
		})
	}
	return out, nil
}

// IsVerseSaved reports whether userID bookmarked (reference, text).
func (s *SavedService) IsVerseSaved(ctx context.Context, userID, reference, text string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	_, err := repo.FindSavedVerse(ctx, s.DB, userID, reference, text)
	return found(err)
}

// SaveVerse bookmarks a verse. language defaults to pt; raw is stored as is.
func (s *SavedService) SaveVerse(ctx context.Context, userID, reference, text, language string, raw json.RawMessage) (*SaveResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(reference) == "" || strings.TrimSpace(text) == "" {
		return nil, ErrInvalidVerse
	}
	lang, err := ResolveLanguage(language, domain.LangPT)
	if err != nil {
		return nil, err
	}

	if cur, err := repo.FindSavedVerse(ctx, s.DB, userID, reference, text); err == nil {
		return &SaveResult{Success: true, Message: MsgAlreadySaved, ID: cur.ID}, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	var rawJSON datatypes.JSON
	if len(raw) > 0 && string(raw) != "null" {
		rawJSON = datatypes.JSON(raw)
	}
	row, err := repo.CreateSavedVerse(ctx, s.DB, userID, reference, text, lang, rawJSON)
	if errors.Is(err, repo.ErrDuplicate) {
		cur, ferr := repo.FindSavedVerse(ctx, s.DB, userID, reference, text)
		if ferr != nil {
			return nil, ferr
		}
		return &SaveResult{Success: true, Message: MsgAlreadySaved, ID: cur.ID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SaveResult{Success: true, Message: MsgSaved, ID: row.ID}, nil
}

// UnsaveVerse removes a verse bookmark.
func (s *SavedService) UnsaveVerse(ctx context.Context, userID, reference, text string) (*SaveResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	ok, err := repo.DeleteSavedVerse(ctx, s.DB, userID, reference, text)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SaveResult{Success: false, Message: MsgNotSaved}, nil
	}
	return &SaveResult{Success: true, Message: MsgRemoved}, nil
}

// ListVerses returns the user's saved verses, newest first.
func (s *SavedService) ListVerses(ctx context.Context, userID string) ([]domain.SavedVerse, error) {
	if userID == "" {
		return []domain.SavedVerse{}, nil
	}
	return repo.ListSavedVerses(ctx, s.DB, userID)
}

// VersesStats returns the count and latest save time, used for ETags.
func (s *SavedService) VersesStats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.SavedVersesStats(ctx, s.DB, userID)
}

// DevotionalsStats returns the count and latest save time, used for ETags.
func (s *SavedService) DevotionalsStats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.SavedDevotionalsStats(ctx, s.DB, userID)
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
