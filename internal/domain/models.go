// Package domain defines the persistence models for the Bible-study backend:
// the search result cache, daily devotionals, saved items and daily logins.
// These types are mapped with GORM and shared across the repository and
// service layers.
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Supported content languages.
const (
	LangPT = "pt"
	LangEN = "en"
)

// ValidLanguage reports whether lang is one of the supported languages.
func ValidLanguage(lang string) bool { return lang == LangPT || lang == LangEN }

// SearchCacheEntry accumulates upstream search results for one
// (normalized term, language) pair.
//
// Fields:
//   - Results: opaque upstream records in arrival order; only ever appended to.
//   - Total: upstream total count once reported; never decreased.
//   - NextOffset: upstream pagination offset not yet consumed; only increases.
//   - LastAccessedAt: bumped on every read; drives TTL/LRU eviction.
type SearchCacheEntry struct {
	ID             string                               `json:"id"               gorm:"type:char(36);primaryKey"`
	Term           string                               `json:"term"             gorm:"type:varchar(255);not null;uniqueIndex:ux_search_term_lang,priority:1"`
	Language       string                               `json:"language"         gorm:"type:varchar(2);not null;uniqueIndex:ux_search_term_lang,priority:2"`
	Results        datatypes.JSONSlice[json.RawMessage] `json:"results"          gorm:"type:text;not null"`
	Total          *int                                 `json:"total,omitempty"`
	NextOffset     int                                  `json:"next_offset"      gorm:"not null;default:0"`
	CreatedAt      time.Time                            `json:"created_at"`
	UpdatedAt      time.Time                            `json:"updated_at"`
	LastAccessedAt time.Time                            `json:"last_accessed_at" gorm:"not null;index:idx_search_last_accessed"`
}

// TableName returns the database table name for SearchCacheEntry.
func (SearchCacheEntry) TableName() string { return "bible_search_cache" }

// RelatedVerse is a verse suggested alongside a devotional summary.
type RelatedVerse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// Devotional is the featured verse of one calendar day plus its derived
// translation, summary and related verses. At most one row exists per Date.
type Devotional struct {
	ID                  string                             `json:"id"                            gorm:"type:char(36);primaryKey"`
	Date                string                             `json:"date"                          gorm:"type:char(10);not null;uniqueIndex:ux_devotional_date"`
	Title               string                             `json:"title,omitempty"               gorm:"type:text"`
	Content             string                             `json:"content,omitempty"             gorm:"type:text"`
	Verse               string                             `json:"verse"                         gorm:"type:text;not null"`
	Reference           string                             `json:"reference"                     gorm:"type:varchar(255)"`
	VerseTranslated     *string                            `json:"verse_translated,omitempty"    gorm:"type:text"`
	ReferenceTranslated *string                            `json:"reference_translated,omitempty" gorm:"type:varchar(255)"`
	Summary             *string                            `json:"summary,omitempty"             gorm:"type:text"`
	RelatedVerses       datatypes.JSONSlice[RelatedVerse]  `json:"related_verses,omitempty"      gorm:"type:text"`
	RawData             datatypes.JSON                     `json:"raw_data,omitempty"            gorm:"type:text"`
	CreatedAt           time.Time                          `json:"created_at"                    gorm:"index:idx_devotional_created"`
	UpdatedAt           time.Time                          `json:"updated_at"`
}

// TableName returns the database table name for Devotional.
func (Devotional) TableName() string { return "daily_devotionals" }

// IsComplete reports whether translation, summary and at least one related
// verse are present.
func (d *Devotional) IsComplete() bool {
	return d != nil &&
		d.VerseTranslated != nil && *d.VerseTranslated != "" &&
		d.Summary != nil && *d.Summary != "" &&
		len(d.RelatedVerses) > 0
}

// SavedDevotional links a user to a devotional they bookmarked.
type SavedDevotional struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID       string    `json:"user_id"       gorm:"type:varchar(64);not null;uniqueIndex:ux_saved_devotional_user,priority:1"`
	DevotionalID string    `json:"devotional_id" gorm:"type:char(36);not null;uniqueIndex:ux_saved_devotional_user,priority:2"`
	Type         string    `json:"type"          gorm:"type:varchar(16);not null;default:'devotional'"`
	SavedAt      time.Time `json:"saved_at"      gorm:"not null;index"`

	// Devotional is removed together with its bookmarks.
	Devotional Devotional `json:"-" gorm:"foreignKey:DevotionalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SavedDevotional.
func (SavedDevotional) TableName() string { return "saved_devotionals" }

// SavedVerse is a verse a user bookmarked, unique per (user, reference, text).
type SavedVerse struct {
	ID        string         `json:"id"                 gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"            gorm:"type:varchar(64);not null;uniqueIndex:ux_saved_verse_user,priority:1"`
	Reference string         `json:"reference"          gorm:"type:varchar(255);not null;uniqueIndex:ux_saved_verse_user,priority:2"`
	Text      string         `json:"text"               gorm:"type:text;not null;uniqueIndex:ux_saved_verse_user,priority:3"`
	Language  string         `json:"language"           gorm:"type:varchar(2);not null;default:'pt'"`
	RawData   datatypes.JSON `json:"raw_data,omitempty" gorm:"type:text"`
	SavedAt   time.Time      `json:"saved_at"           gorm:"not null;index"`
}

// TableName returns the database table name for SavedVerse.
func (SavedVerse) TableName() string { return "saved_verses" }

// DailyLogin records that a user opened the app on a given UTC day.
type DailyLogin struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_login_user_date,priority:1"`
	Date      string    `json:"date"       gorm:"type:char(10);not null;uniqueIndex:ux_login_user_date,priority:2"`
	LoginTime time.Time `json:"login_time" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for DailyLogin.
func (DailyLogin) TableName() string { return "daily_logins" }
