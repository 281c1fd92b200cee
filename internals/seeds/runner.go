package seeds

import (
	"context"
	"log"
	"path/filepath"

	"gorm.io/gorm"

	gateService "admon_backend/internals/features/auth/gate/service"
	"admon_backend/internals/seeds/clients"
)

// RunAllSeeds writes the admin passphrase (first run only) and the demo
// clients and projects found under dir.
func RunAllSeeds(ctx context.Context, db *gorm.DB, passphrase, dir string) {
	if ok, err := gateService.SeedPassphrase(ctx, db, passphrase); err != nil {
		log.Printf("❌ passphrase: %v", err)
	} else if ok {
		log.Println("✅ passphrase seeded")
	}

	//* Clients & projects
	n, err := clients.SeedClientsFromJSON(db.WithContext(ctx), filepath.Join(dir, "clients", "data_clients.json"))
	if err != nil {
		log.Printf("❌ clients: %v", err)
		return
	}
	log.Printf("✅ %d demo rows inserted", n)
}
