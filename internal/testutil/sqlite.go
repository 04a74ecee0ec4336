package testutil

import (
	"path/filepath"
	"testing"

	"console/internal/config"
	"console/internal/database"
	"console/internal/mocks"
	"console/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BootstrapPassword is the admin password served by harness repositories
const BootstrapPassword = "admin"

// Harness is a migrated temporary sqlite database with every repository wired to it
type Harness struct {
	DB       *gorm.DB
	Repos    *repository.Repositories
	Notifier *mocks.MockNotifier
}

// NewDB opens a migrated sqlite database in a temporary directory
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "console.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		_ = sqlDB.Close()
		tb.Fatalf("failed to migrate: %v", err)
	}

	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// NewHarness wires all repositories to a fresh sqlite database
func NewHarness(tb testing.TB) *Harness {
	tb.Helper()

	db := NewDB(tb)
	notifier := &mocks.MockNotifier{}
	repos := repository.New(db, zerolog.Nop(), repository.Options{
		Seed:              config.DefaultDirectorySeed(),
		BootstrapPassword: BootstrapPassword,
		Notifier:          notifier,
	})
	return &Harness{DB: db, Repos: repos, Notifier: notifier}
}
