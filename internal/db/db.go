package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"album-server/internal/config"
	"album-server/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	var err error
	cfg := config.Get()
	var dialector gorm.Dialector

	switch cfg.Database.Type {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
		if cfg.Database.SSL {
			dsn += "&tls=true"
		}
		dialector = mysql.Open(dsn)
	case "postgres":
		sslMode := "disable"
		if cfg.Database.SSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
			sslMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		fallthrough
	default:
		dbDir := filepath.Dir(cfg.Database.Filename)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("failed to create database directory %q: %v", dbDir, err)
		}

		// WAL mode plus a busy timeout for better sqlite concurrency.
		dsn := cfg.Database.Filename + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
		dialector = sqlite.Open(dsn)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to access sql.DB: ", err)
	}

	if cfg.Database.Type == "sqlite" {
		// sqlite works best with a single writer connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(DB); err != nil {
		log.Fatal("database migration failed: ", err)
	}

	log.Printf("database (%s) connected, schema in sync", cfg.Database.Type)
}

// Migrate creates or updates the relational schema.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.User{},
		&model.Photo{},
		&model.Tag{},
		&model.Comment{},
		&model.Follow{},
		&model.Collect{},
		&model.Notification{},
	)
}
