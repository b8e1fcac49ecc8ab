package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/audit"
	"github.com/redlinemotors/shop-ops/internal/config"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/handlers"
	infraRepo "github.com/redlinemotors/shop-ops/internal/infra/repository"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/middleware"
	ucAppointment "github.com/redlinemotors/shop-ops/internal/usecase/appointment"
	ucAssignment "github.com/redlinemotors/shop-ops/internal/usecase/assignment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	assignmentRepo := infraRepo.NewAssignmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	assignmentEngine := engine.NewEngine(assignmentRepo, engine.Options{
		Strict: cfg.StrictAssign,
	})

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		locker = lock.NewRedis(cfg.RedisAddr)
	} else {
		locker = lock.NewMemory()
	}

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		assignmentEngine,
		locker,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	noShowUC := ucAppointment.NewMarkNoShow(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	availabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		assignmentEngine,
	)

	backfillUC := ucAssignment.NewBackfill(
		appointmentRepo,
		assignmentEngine,
		locker,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	shopHandler := handlers.NewShopHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	bayHandler := handlers.NewBayHandler(db)
	technicianHandler := handlers.NewTechnicianHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		noShowUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		backfillUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, createAppointmentUC, availabilityUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/shop", shopHandler.GetMeShop)
			secured.PATCH("/me/shop", shopHandler.UpdateMeShop)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/bays", bayHandler.List)
			secured.POST("/me/bays", bayHandler.Create)
			secured.PATCH("/me/bays/:id", bayHandler.Update)

			secured.GET("/me/technicians", technicianHandler.List)
			secured.POST("/me/technicians", technicianHandler.Create)
			secured.PATCH("/me/technicians/:id", technicianHandler.Update)
			secured.GET("/me/technicians/:id/schedule", technicianHandler.GetSchedule)
			secured.PUT("/me/technicians/:id/schedule", technicianHandler.UpdateSchedule)
			secured.GET("/me/technicians/:id/bays", technicianHandler.GetBays)
			secured.PUT("/me/technicians/:id/bays", technicianHandler.UpdateBays)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/me/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.POST("/me/appointments/backfill", appointmentHandler.Backfill)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
