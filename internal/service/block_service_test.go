package service

import (
	"testing"
	"time"

	"github.com/uutiset/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Post{}, &db.Comment{}, &db.BlockRule{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return func() {
		db.DB.Exec("DELETE FROM posts")
		db.DB.Exec("DELETE FROM comments")
		db.DB.Exec("DELETE FROM block_rules")
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestIsBlockedActiveIPRule(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	ipHash := HashValue("203.0.113.7")
	rule := db.BlockRule{Kind: db.BlockKindIP, ValueHash: ipHash, Active: true}
	if err := db.DB.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	svc := NewBlockRuleService(db.DB)

	blocked, err := svc.IsBlocked(ipHash, "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !blocked {
		t.Fatal("active ip rule should block the matching hash")
	}

	blocked, err = svc.IsBlocked(HashValue("198.51.100.1"), "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatal("non-matching hash should not be blocked")
	}
}

func TestIsBlockedExpiredRuleHasNoEffect(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	ipHash := HashValue("203.0.113.7")
	rule := db.BlockRule{Kind: db.BlockKindIP, ValueHash: ipHash, Active: true, ExpiresAt: &past}
	if err := db.DB.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	svc := NewBlockRuleService(db.DB).WithNow(func() time.Time { return now })

	blocked, err := svc.IsBlocked(ipHash, "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatal("expired rule must not block")
	}

	// 同一条规则未过期时生效。
	future := now.Add(time.Hour)
	if err := db.DB.Model(&db.BlockRule{}).Where("id = ?", rule.ID).Update("expires_at", &future).Error; err != nil {
		t.Fatalf("failed to update rule: %v", err)
	}
	blocked, err = svc.IsBlocked(ipHash, "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !blocked {
		t.Fatal("unexpired rule should block")
	}
}

func TestIsBlockedInactiveRuleHasNoEffect(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	ipHash := HashValue("203.0.113.7")
	rule := db.BlockRule{Kind: db.BlockKindIP, ValueHash: ipHash, Active: false}
	if err := db.DB.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	svc := NewBlockRuleService(db.DB)
	blocked, err := svc.IsBlocked(ipHash, "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatal("inactive rule must not block")
	}
}

func TestIsBlockedNicknameCaseFolded(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	rule := db.BlockRule{Kind: db.BlockKindNick, Value: "troll", Active: true}
	if err := db.DB.Create(&rule).Error; err != nil {
		t.Fatalf("failed to create rule: %v", err)
	}

	svc := NewBlockRuleService(db.DB)
	blocked, err := svc.IsBlocked("", "", "Troll")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !blocked {
		t.Fatal("nickname matching should be case-insensitive")
	}
}

func TestIsBlockedNoRules(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBlockRuleService(db.DB)
	blocked, err := svc.IsBlocked(HashValue("203.0.113.7"), HashValue("a@b.fi"), "nick")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatal("empty rule table must not block")
	}
}

func TestIsBlockedEmptyIdentifiers(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewBlockRuleService(db.DB)
	blocked, err := svc.IsBlocked("", "", "")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatal("garbage input must not block")
	}
}

func TestHashValueIrreversibleAndStable(t *testing.T) {
	first := HashValue("203.0.113.7")
	second := HashValue("203.0.113.7")
	if first == "" || first != second {
		t.Fatal("hash must be stable and non-empty")
	}
	if first == "203.0.113.7" {
		t.Fatal("hash must not echo the input")
	}
	if HashValue("") != "" {
		t.Fatal("empty input hashes to empty")
	}
}
