package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/config"
	"github.com/redlinemotors/shop-ops/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Bay{},
		&models.Technician{},
		&models.BayAssignment{},
		&models.TechnicianSchedule{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Database-level backstop against technician double-booking: the
	// conflict check and the appointment write are separate statements,
	// so a concurrent booking can slip between them. Violations surface
	// as 23P01 and are mapped to a retryable conflict by httperr.
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)
	db.Exec(`
        DO $$ BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint
                WHERE conname = 'appointments_technician_no_overlap'
            ) THEN
                ALTER TABLE appointments
                ADD CONSTRAINT appointments_technician_no_overlap
                EXCLUDE USING gist (
                    technician_id WITH =,
                    tsrange(start_time, end_time) WITH &&
                )
                WHERE (technician_id IS NOT NULL AND status = 'scheduled');
            END IF;
        END $$;
    `)

	db.Exec(`
        UPDATE shops
        SET timezone = 'America/Chicago'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return db
}
