package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
)

func TestOpenSQLite_SeedAndReset(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer CloseDB(db)

	ctx := context.Background()
	session, err := Seed(ctx, db)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if session.Title != "Sample Voice Session" {
		t.Errorf("title = %q", session.Title)
	}

	var count int64
	db.Model(&entities.Transcript{}).Where("session_id = ?", session.ID).Count(&count)
	if count != 1 {
		t.Fatalf("transcripts = %d, want 1", count)
	}

	if err := Reset(db, DriverSQLite, nil); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	db.Model(&entities.User{}).Count(&count)
	if count != 0 {
		t.Errorf("users after reset = %d, want 0", count)
	}
}

func TestMigrationSource_Embedded(t *testing.T) {
	migrations, err := migrationSource().FindMigrations()
	if err != nil {
		t.Fatalf("FindMigrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	if len(migrations[0].Up) == 0 || len(migrations[0].Down) == 0 {
		t.Error("expected both up and down statements")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"voice.db", "voice.db?_pragma=foreign_keys(1)"},
		{"file:voice.db?mode=rwc", "file:voice.db?mode=rwc&_pragma=foreign_keys(1)"},
	}
	for _, tt := range tests {
		if got := SQLiteDSN(tt.path); got != tt.want {
			t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpenSQLite_ForeignKeysEnabled(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer CloseDB(db)

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("PRAGMA foreign_keys error = %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}
}
