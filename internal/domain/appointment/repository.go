package appointment

import (
	"context"
	"time"

	"github.com/redlinemotors/shop-ops/internal/models"
)

type Repository interface {
	// -------- Shop --------
	GetShopByID(
		ctx context.Context,
		id uint,
	) (*models.Shop, error)

	GetShopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Shop, error)

	// -------- Service catalog --------
	GetServices(
		ctx context.Context,
		shopID uint,
		serviceIDs []uint,
	) ([]models.Service, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		shopID uint,
		name string,
		phone string,
		email string,
		vehicle string,
	) (*models.Customer, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasTimeConflict(
		ctx context.Context,
		technicianID uint,
		start time.Time,
		end time.Time,
		excludeAppointmentID uint,
	) (bool, error)

	// -------- Appointment (state change) --------
	GetAppointmentForShop(
		ctx context.Context,
		appointmentID uint,
		shopID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listings --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		shopID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListUnassigned returns scheduled appointments missing a bay and/or
	// technician, ordered by start_time ascending. Backfill depends on
	// that ordering: earlier appointments must claim conflict state first.
	ListUnassigned(
		ctx context.Context,
		shopID uint,
	) ([]models.Appointment, error)
}
