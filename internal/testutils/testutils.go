package testutils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"album-server/internal/config"
	"album-server/internal/db"
	"album-server/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

// SetupDB initializes a unique in-memory SQLite database, sets the
// global db.DB, migrates the schema and seeds the role catalog.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:album_%d?mode=memory&cache=shared", seq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	prevDB := db.DB
	t.Cleanup(func() {
		if prevDB != nil && db.DB == gdb {
			db.DB = prevDB
		}
		_ = sqlDB.Close()
	})

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	db.DB = gdb

	if err := service.SeedRoles(gdb); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return gdb
}

// SetupConfig installs a test configuration snapshot with temp
// directories for stored files.
func SetupConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.JWT.Secret = "test_secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.ActionTokenExpirationHours = 1
	cfg.Upload.Path = t.TempDir()
	cfg.Upload.AvatarPath = t.TempDir()
	cfg.Upload.PhotoSizeSmall = 400
	cfg.Upload.PhotoSizeMedium = 800
	cfg.App.PhotoPerPage = 12
	cfg.App.UserPerPage = 12
	cfg.App.CommentPerPage = 12
	cfg.App.NotificationPerPage = 12

	config.SetForTesting(cfg)
	return cfg
}
