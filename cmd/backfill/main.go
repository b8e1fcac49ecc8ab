package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/redlinemotors/shop-ops/internal/audit"
	"github.com/redlinemotors/shop-ops/internal/config"
	dbpkg "github.com/redlinemotors/shop-ops/internal/db"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	infraRepo "github.com/redlinemotors/shop-ops/internal/infra/repository"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/models"
	ucAssignment "github.com/redlinemotors/shop-ops/internal/usecase/assignment"
)

// Re-runs resource assignment over scheduled appointments that are still
// missing a bay or technician. With -shop 0 every shop is processed.
func main() {

	_ = godotenv.Load()

	shopID := flag.Uint("shop", 0, "shop id to backfill (0 = all shops)")
	flag.Parse()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	assignmentRepo := infraRepo.NewAssignmentGormRepository(db)

	assignmentEngine := engine.NewEngine(assignmentRepo, engine.Options{
		Strict: cfg.StrictAssign,
	})

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		locker = lock.NewRedis(cfg.RedisAddr)
	} else {
		locker = lock.NewMemory()
	}

	dispatcher := audit.NewDispatcher(audit.New(db))

	backfill := ucAssignment.NewBackfill(
		appointmentRepo,
		assignmentEngine,
		locker,
		dispatcher,
	)

	var shopIDs []uint
	if *shopID != 0 {
		shopIDs = []uint{*shopID}
	} else {
		var shops []models.Shop
		if err := db.Order("id ASC").Find(&shops).Error; err != nil {
			log.Fatalf("failed to list shops: %v", err)
		}
		for _, s := range shops {
			shopIDs = append(shopIDs, s.ID)
		}
	}

	ctx := context.Background()
	for _, id := range shopIDs {
		report, err := backfill.Execute(ctx, id)
		if err != nil {
			log.Fatalf("backfill failed for shop %d: %v", id, err)
		}
		log.Printf(
			"shop %d: scanned=%d assigned=%d bay_only=%d unassigned=%d",
			id, report.Scanned, report.Assigned, report.BayOnly, report.Unassigned,
		)
	}
}
