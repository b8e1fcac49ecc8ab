package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/redlinemotors/shop-ops/internal/audit"
	"github.com/redlinemotors/shop-ops/internal/config"
	dbpkg "github.com/redlinemotors/shop-ops/internal/db"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	infraRepo "github.com/redlinemotors/shop-ops/internal/infra/repository"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/seed"
	ucAssignment "github.com/redlinemotors/shop-ops/internal/usecase/assignment"
)

// Seeds a demo shop into an empty database and runs an assignment
// backfill over it. Safe to re-run: a non-empty database is left alone.
func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	seeded, err := seed.HasShops(db)
	if err != nil {
		log.Fatalf("failed to inspect database: %v", err)
	}
	if seeded {
		log.Println("database already has shops, skipping seed")
		return
	}

	shopID, err := seed.DemoShop(db)
	if err != nil {
		log.Fatalf("failed to seed demo shop: %v", err)
	}
	log.Printf("seeded demo shop %d", shopID)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	assignmentRepo := infraRepo.NewAssignmentGormRepository(db)

	assignmentEngine := engine.NewEngine(assignmentRepo, engine.Options{
		Strict: cfg.StrictAssign,
	})

	backfill := ucAssignment.NewBackfill(
		appointmentRepo,
		assignmentEngine,
		lock.NewMemory(),
		audit.NewDispatcher(audit.New(db)),
	)

	report, err := backfill.Execute(context.Background(), shopID)
	if err != nil {
		log.Fatalf("backfill failed: %v", err)
	}
	log.Printf(
		"backfill: scanned=%d assigned=%d bay_only=%d unassigned=%d",
		report.Scanned, report.Assigned, report.BayOnly, report.Unassigned,
	)
}
