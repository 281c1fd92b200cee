// Command recalc-avances recomputes the derived counters of every progress
// record from its features.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"admon_backend/internals/configs"
	avanceService "admon_backend/internals/features/progress/avances/service"
)

func main() {
	configs.LoadEnv()
	db := configs.InitScriptDB()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🔄 Recalculating progress records...")
	res, err := avanceService.RecalculateAll(ctx, db)
	if err != nil {
		log.Fatalf("❌ recalculation aborted: %v", err)
	}

	log.Printf("✅ updated=%d ❌ failed=%d", res.Updated, res.Failed)
	for _, e := range res.Errors {
		log.Printf("   - %s", e)
	}
	if res.Failed > 0 {
		os.Exit(1)
	}
}
