package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/models"
)

// AssignmentGormRepository feeds the assignment engine its reference data.
type AssignmentGormRepository struct {
	db *gorm.DB
}

func NewAssignmentGormRepository(db *gorm.DB) *AssignmentGormRepository {
	return &AssignmentGormRepository{db: db}
}

func (r *AssignmentGormRepository) GetServices(
	ctx context.Context,
	serviceIDs []uint,
) ([]models.Service, error) {

	if len(serviceIDs) == 0 {
		return nil, nil
	}

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ?", serviceIDs).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AssignmentGormRepository) ListActiveBaysByType(
	ctx context.Context,
	shopID uint,
	bayType string,
) ([]models.Bay, error) {

	var bays []models.Bay
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND bay_type = ? AND active = true", shopID, bayType).
		Order("id ASC").
		Find(&bays).Error; err != nil {
		return nil, err
	}
	return bays, nil
}

func (r *AssignmentGormRepository) ListBayAssignments(
	ctx context.Context,
	bayID uint,
) ([]models.BayAssignment, error) {

	var links []models.BayAssignment
	if err := r.db.WithContext(ctx).
		Preload("Technician").
		Where("bay_id = ?", bayID).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *AssignmentGormRepository) ListScheduleForDay(
	ctx context.Context,
	technicianIDs []uint,
	weekday int,
) ([]models.TechnicianSchedule, error) {

	if len(technicianIDs) == 0 {
		return nil, nil
	}

	var rows []models.TechnicianSchedule
	if err := r.db.WithContext(ctx).
		Where("technician_id IN ? AND weekday = ?", technicianIDs, weekday).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AssignmentGormRepository) ListBookedOnDate(
	ctx context.Context,
	technicianIDs []uint,
	dayStart time.Time,
	dayEnd time.Time,
	excludeAppointmentID uint,
) ([]models.Appointment, error) {

	if len(technicianIDs) == 0 {
		return nil, nil
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "technician_id", "start_time", "end_time", "status").
		Where(
			"technician_id IN ? AND status NOT IN ('cancelled', 'no_show') AND start_time >= ? AND start_time < ? AND id <> ?",
			technicianIDs,
			dayStart,
			dayEnd,
			excludeAppointmentID,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ assignment.DataStore = (*AssignmentGormRepository)(nil)
