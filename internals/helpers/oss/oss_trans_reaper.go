package helper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"admon_backend/internals/configs"
)

// Uploads whose record update failed leave objects nothing points at.
// The reaper removes them once they are older than the retention window.

type OrphanReaperConfig struct {
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

var documentTables = []string{"venta", "contratos", "suscripciones"}

func OrphanReaperConfigFromEnv() OrphanReaperConfig {
	return OrphanReaperConfig{
		RetentionDays: configs.GetEnvInt("ORPHAN_RETENTION_DAYS", 7),
		CronSchedule:  configs.GetEnv("ORPHAN_REAPER_CRON", "30 3 * * *"),
		DryRun:        configs.GetEnvBool("ORPHAN_REAPER_DRY_RUN", true),
	}
}

// StartOrphanReaperCron is called from main once the DB and OSS are ready.
func StartOrphanReaperCron(db *gorm.DB, svc *OSSService, cfg OrphanReaperConfig) *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		if err := runOrphanReaper(ctx, db, svc, retention, cfg.DryRun); err != nil {
			log.Printf("[ORPHAN-REAPER] error: %v", err)
		}
	})
	if err != nil {
		log.Printf("[ORPHAN-REAPER] add cron failed: %v", err)
		return nil
	}
	log.Printf("[ORPHAN-REAPER] started schedule=%q retention=%dd dryRun=%v", cfg.CronSchedule, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

func runOrphanReaper(ctx context.Context, db *gorm.DB, svc *OSSService, retention time.Duration, dryRun bool) error {
	referenced, err := referencedNames(ctx, db)
	if err != nil {
		return err
	}

	prefix := ""
	if svc.Prefix != "" {
		prefix = svc.Prefix + "/"
	}
	marker := oss.Marker("")
	var objects []oss.ObjectProperties
	for {
		lor, err := svc.Bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return err
		}
		objects = append(objects, lor.Objects...)
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	orphans := selectOrphans(objects, referenced, time.Now().Add(-retention))
	if len(orphans) == 0 {
		log.Printf("[ORPHAN-REAPER] nothing to delete; scanned=%d", len(objects))
		return nil
	}
	if dryRun {
		log.Printf("[ORPHAN-REAPER] DRY-RUN would delete %d/%d objects", len(orphans), len(objects))
		return nil
	}

	deleted := 0
	for i := 0; i < len(orphans); i += 1000 {
		end := i + 1000
		if end > len(orphans) {
			end = len(orphans)
		}
		batch := orphans[i:end]
		if _, err := svc.Bucket.DeleteObjects(batch, oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			log.Printf("[ORPHAN-REAPER] delete batch %d-%d failed: %v", i, end, err)
			continue
		}
		deleted += len(batch)
	}
	log.Printf("[ORPHAN-REAPER] deleted %d objects (scanned=%d)", deleted, len(objects))
	return nil
}

// referencedNames collects the object names every stored document URL points at.
func referencedNames(ctx context.Context, db *gorm.DB) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, table := range documentTables {
		var urls []string
		if err := db.WithContext(ctx).
			Table(table).
			Where("contrato_url IS NOT NULL AND contrato_url <> ''").
			Pluck("contrato_url", &urls).Error; err != nil {
			return nil, err
		}
		for _, u := range urls {
			if name := LastPathSegment(u); name != "" {
				out[name] = struct{}{}
			}
		}
	}
	return out, nil
}

func selectOrphans(objects []oss.ObjectProperties, referenced map[string]struct{}, threshold time.Time) []string {
	var keys []string
	for _, obj := range objects {
		if obj.Key == "" || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if _, ok := referenced[LastPathSegment(obj.Key)]; ok {
			continue
		}
		if obj.LastModified.Before(threshold) {
			keys = append(keys, obj.Key)
		}
	}
	return keys
}
