package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"internlink_backend/internals/configs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Handles: Restricted dipakai semua handler, Elevated hanya untuk operasi
// yang butuh hak penuh (cascade delete opportunity, migrasi, seed).
type Handles struct {
	Restricted *gorm.DB
	Elevated   *gorm.DB
}

func Open(dsn string, slow time.Duration) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(slow),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func ConnectDB(cfg *configs.Config) (*Handles, error) {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	restricted, err := Open(cfg.DatabaseURL, cfg.DBSlowThreshold)
	if err != nil {
		return nil, fmt.Errorf("connect restricted db: %w", err)
	}
	TunePool(restricted, 20, 10)

	elevated := restricted
	if cfg.DatabaseServiceURL != "" && cfg.DatabaseServiceURL != cfg.DatabaseURL {
		elevated, err = Open(cfg.DatabaseServiceURL, cfg.DBSlowThreshold)
		if err != nil {
			return nil, fmt.Errorf("connect elevated db: %w", err)
		}
		TunePool(elevated, 5, 2)
	}

	log.Println("✅ DB connected.")
	return &Handles{Restricted: restricted, Elevated: elevated}, nil
}

func TunePool(db *gorm.DB, maxOpen, maxIdle int) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Ping(ctx, db); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *Handles) Close() {
	seen := map[*gorm.DB]bool{}
	for _, db := range []*gorm.DB{h.Restricted, h.Elevated} {
		if db == nil || seen[db] {
			continue
		}
		seen[db] = true
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
