package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Idempotency represents the recorded result of a previously processed
// request, keyed by (user_id, scope, key). Scope is "<METHOD> <path>" so the
// same client key can be reused across endpoints. It lets retries of POST
// operations (saving items, manual devotional fetch) replay the original
// response without re-executing side effects.
type Idempotency struct {
	ID        string         `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string         `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:1"`
	Scope     string         `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:2"`
	Key       string         `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_scope_key,priority:3"`
	Status    int            `gorm:"type:INTEGER NOT NULL"`
	Body      datatypes.JSON `gorm:"type:TEXT"`
	CreatedAt time.Time      `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time      `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

// Lease is a named, expiring mutual-exclusion marker. A row is acquired by
// inserting it, or by taking over a row whose ExpiresAt has passed.
type Lease struct {
	Key       string    `gorm:"type:varchar(128);primaryKey"`
	Owner     string    `gorm:"type:char(36);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName implements the GORM tabler interface.
func (Lease) TableName() string { return "leases" }
