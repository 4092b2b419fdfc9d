// Package sqlitedb opens an in-memory sqlite database carrying the ledger
// schema, for repository and usecase tests.
package sqlitedb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chapter-fund-ledger/internal/domain/club"
	"chapter-fund-ledger/internal/domain/donation"
	"chapter-fund-ledger/internal/domain/event"
	"chapter-fund-ledger/internal/domain/expense"
	"chapter-fund-ledger/internal/domain/member"
)

// Open returns a fresh database. The pool is capped at one connection:
// every connection to ":memory:" would otherwise see its own empty database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&club.Club{}, &member.Member{}, &event.Event{},
		&donation.Donation{}, &expense.Expense{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
