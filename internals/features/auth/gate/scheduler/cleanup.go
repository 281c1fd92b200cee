package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"admon_backend/internals/configs"
	"admon_backend/internals/features/auth/gate/service"
)

const defaultCleanupCron = "15 4 * * *"

// StartSessionCleanupScheduler deletes ended sessions on SESSION_CLEANUP_CRON.
// Revoked sessions are kept for SESSION_RETENTION_DAYS for auditing.
func StartSessionCleanupScheduler(db *gorm.DB) *cron.Cron {
	spec := configs.GetEnv("SESSION_CLEANUP_CRON", defaultCleanupCron)
	retention := time.Duration(configs.GetEnvInt("SESSION_RETENTION_DAYS", 1)) * 24 * time.Hour

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() { runCleanup(db, retention) })
	if err != nil {
		log.Printf("[CLEANUP] invalid schedule %q: %v", spec, err)
		return nil
	}
	log.Printf("[CLEANUP] session cleanup scheduled %q", spec)
	c.Start()
	return c
}

func runCleanup(db *gorm.DB, retention time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("[CLEANUP] Removing ended sessions...")
	n, err := service.CleanupSessions(ctx, db, time.Now().Add(-retention))
	if err != nil {
		log.Printf("[CLEANUP ERROR] %v", err)
		return
	}
	if n == 0 {
		log.Println("[CLEANUP] No sessions to remove")
		return
	}
	log.Printf("[CLEANUP] %d sessions removed", n)
}
