package main

import (
	"context"
	"flag"
	"log"
	"time"

	"admon_backend/internals/configs"
	database "admon_backend/internals/databases"
	"admon_backend/internals/seeds"
)

func main() {
	dir := flag.String("dir", "internals/seeds", "fixture root")
	flag.Parse()

	configs.LoadEnv()
	db := configs.InitScriptDB()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	seeds.RunAllSeeds(ctx, db, configs.AdminPassphrase, *dir)
}
