package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/redlinemotors/shop-ops/internal/domain/appointment"
	"github.com/redlinemotors/shop-ops/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (r *AppointmentGormRepository) GetShopByID(
	ctx context.Context,
	id uint,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetShopBySlug(
	ctx context.Context,
	slug string,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetServices(
	ctx context.Context,
	shopID uint,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id IN ?", shopID, serviceIDs).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	shopID uint,
	name string,
	phone string,
	email string,
	vehicle string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND phone = ?", shopID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		ShopID:  shopID,
		Name:    name,
		Phone:   phone,
		Email:   email,
		Vehicle: vehicle,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	technicianID uint,
	start time.Time,
	end time.Time,
	excludeAppointmentID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"technician_id = ? AND status NOT IN ('cancelled', 'no_show') AND start_time < ? AND end_time > ? AND id <> ?",
			technicianID,
			end,
			start,
			excludeAppointmentID,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) GetAppointmentForShop(
	ctx context.Context,
	appointmentID uint,
	shopID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("id = ? AND shop_id = ?", appointmentID, shopID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	shopID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Services").
		Preload("Technician").
		Preload("Bay").
		Where(
			"shop_id = ? AND start_time >= ? AND start_time < ?",
			shopID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListUnassigned(
	ctx context.Context,
	shopID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	// Ascending start_time is load-bearing: backfill must assign earlier
	// appointments first so they occupy conflict state for later ones.
	err := r.db.WithContext(ctx).
		Preload("Services").
		Where(
			"shop_id = ? AND status = 'scheduled' AND (technician_id IS NULL OR bay_id IS NULL)",
			shopID,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
