package domain

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestIdempotency_UniquePerUserScopeKey(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !db.Migrator().HasIndex(&Idempotency{}, "ux_user_scope_key") {
		t.Fatal("missing ux_user_scope_key")
	}

	now := time.Now().UTC()
	rec := func(id, user, scope string) *Idempotency {
		return &Idempotency{
			ID: id, UserID: user, Scope: scope, Key: "k1", Status: 201,
			Body: datatypes.JSON(`{"saved":true}`), CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}
	}
	steps := []struct {
		row     *Idempotency
		wantErr bool
	}{
		{rec("a", "u1", "POST /api/v1/saved/verses"), false},
		{rec("b", "u1", "POST /api/v1/saved/verses"), true},
		{rec("c", "u1", "POST /api/v1/devotionals/fetch"), false},
		{rec("d", "u2", "POST /api/v1/saved/verses"), false},
	}
	for _, s := range steps {
		err := db.Create(s.row).Error
		if (err != nil) != s.wantErr {
			t.Fatalf("insert %s: err=%v wantErr=%v", s.row.ID, err, s.wantErr)
		}
	}

	var got Idempotency
	if err := db.Take(&got, "id = ?", "a").Error; err != nil || string(got.Body) != `{"saved":true}` || got.Status != 201 {
		t.Fatalf("readback: %+v %v", got, err)
	}
}

func TestLease_NameIsPrimaryKey(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Lease{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	exp := time.Now().UTC().Add(time.Minute)
	if err := db.Create(&Lease{Key: "devotional:2025-01-01", Owner: "a", ExpiresAt: exp}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Create(&Lease{Key: "devotional:2025-01-01", Owner: "b", ExpiresAt: exp}).Error; err == nil {
		t.Fatal("a held lease name must not be inserted twice")
	}
}
