package db

import (
	"path/filepath"
	"testing"

	"github.com/vibechat/service/internal/models"
)

func TestMigrate_CreatesSchemaAndSeeds(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "vibechat-test.db")
	conn, err := Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{"users", "rooms", "bots", "subscriptions", "pre_made_servers"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist", table)
		}
	}

	var count int64
	if errCount := conn.Model(&models.PreMadeServer{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count pre-made servers: %v", errCount)
	}
	if count == 0 {
		t.Fatalf("expected seeded pre-made servers")
	}

	// Re-running must not duplicate the seed rows.
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("second migrate: %v", errMigrate)
	}
	var second int64
	if errCount := conn.Model(&models.PreMadeServer{}).Count(&second).Error; errCount != nil {
		t.Fatalf("recount pre-made servers: %v", errCount)
	}
	if second != count {
		t.Fatalf("expected %d servers after re-migrate, got %d", count, second)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
