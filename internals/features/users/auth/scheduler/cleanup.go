package scheduler

import (
	"context"
	"log"
	"time"

	authRepo "internlink_backend/internals/features/users/auth/repository"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DefaultSpec: tiap jam di menit ke-17.
const DefaultSpec = "17 * * * *"

// StartTokenCleanup memasang job pembersihan blacklist & refresh token.
// Caller wajib memanggil Stop() saat shutdown.
func StartTokenCleanup(db *gorm.DB, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RunCleanup(db) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[INFO] token cleanup scheduled (%s)", spec)
	return c, nil
}

// RunCleanup dijalankan sekali; dipakai cron dan test.
func RunCleanup(db *gorm.DB) (blacklisted, refresh int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	now := time.Now().UTC()

	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, now)
	if err != nil {
		log.Printf("[ERROR] cleanup token_blacklist: %v", err)
	} else {
		blacklisted = n
	}
	m, err := authRepo.CleanupRefreshTokens(ctx, db, now)
	if err != nil {
		log.Printf("[ERROR] cleanup refresh_tokens: %v", err)
	} else {
		refresh = m
	}
	if blacklisted > 0 || refresh > 0 {
		log.Printf("[INFO] cleanup removed blacklist=%d refresh=%d", blacklisted, refresh)
	}
	return blacklisted, refresh
}
