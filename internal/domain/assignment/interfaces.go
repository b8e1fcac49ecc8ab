package assignment

import (
	"context"
	"time"

	"github.com/redlinemotors/shop-ops/internal/models"
)

// DataStore supplies the reference data the engine narrows candidates
// against. All implementations must return BayAssignments with the
// Technician association populated.
type DataStore interface {
	GetServices(
		ctx context.Context,
		serviceIDs []uint,
	) ([]models.Service, error)

	ListActiveBaysByType(
		ctx context.Context,
		shopID uint,
		bayType string,
	) ([]models.Bay, error)

	ListBayAssignments(
		ctx context.Context,
		bayID uint,
	) ([]models.BayAssignment, error)

	ListScheduleForDay(
		ctx context.Context,
		technicianIDs []uint,
		weekday int,
	) ([]models.TechnicianSchedule, error)

	// ListBookedOnDate returns appointments that occupy technician time
	// (not cancelled, not no-show) for the given technicians within
	// [dayStart, dayEnd), excluding excludeAppointmentID so an
	// appointment being re-assigned never conflicts with itself.
	ListBookedOnDate(
		ctx context.Context,
		technicianIDs []uint,
		dayStart time.Time,
		dayEnd time.Time,
		excludeAppointmentID uint,
	) ([]models.Appointment, error)
}
