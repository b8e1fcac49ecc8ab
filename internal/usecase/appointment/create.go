package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/redlinemotors/shop-ops/internal/audit"
	domain "github.com/redlinemotors/shop-ops/internal/domain/appointment"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/httperr"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/models"
	"github.com/redlinemotors/shop-ops/internal/timezone"
)

const slotLockTTL = 10 * time.Second

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ShopID uint
	UserID *uint // staff member creating the booking; nil for public bookings

	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerVehicle string

	ServiceIDs []uint

	Date  string
	Time  string
	Notes string
}

type CreateAppointmentOutput struct {
	Appointment *models.Appointment
	Assignment  engine.Result
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment is the live-booking adapter around the assignment
// engine. A booking is never rejected because assignment failed: the
// appointment is created with bay and/or technician left unset and the
// backfill flow retries later.
type CreateAppointment struct {
	repo   domain.Repository
	engine *engine.Engine
	locker lock.Locker
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	eng *engine.Engine,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		engine: eng,
		locker: locker,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	shop, err := uc.repo.GetShopByID(ctx, in.ShopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 60
	}

	now := timezone.NowIn(shop.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	services, err := uc.repo.GetServices(ctx, in.ShopID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration := 0
	for _, s := range services {
		if !s.Active {
			return nil, httperr.ErrBusiness("service_inactive")
		}
		duration += s.DurationMin
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.ShopID,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
		in.CustomerVehicle,
	)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	result, err := uc.engine.Assign(ctx, engine.Request{
		ShopID:      in.ShopID,
		ServiceIDs:  in.ServiceIDs,
		Date:        dayStart,
		StartMinute: start.Hour()*60 + start.Minute(),
		DurationMin: duration,
	})
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		Code:        uuid.NewString(),
		ShopID:      in.ShopID,
		CustomerID:  customer.ID,
		Services:    services,
		StartTime:   start,
		EndTime:     end,
		DurationMin: duration,
		Status:      string(domain.InitialStatus()),
		Notes:       in.Notes,
	}
	if result.BayID != 0 {
		bayID := result.BayID
		ap.BayID = &bayID
	}

	// The engine's conflict read and our write are separate statements,
	// so the technician slot is confirmed under a per-(technician, date)
	// lock with a fresh conflict check. Losing the race degrades the
	// booking to bay_only instead of failing it.
	if result.Status == engine.StatusAssigned {
		techID := result.TechnicianID

		release, lockErr := uc.locker.Acquire(ctx, lock.SlotKey(techID, dayStart), slotLockTTL)
		if lockErr == nil {
			defer release()

			conflict, checkErr := uc.repo.HasTimeConflict(ctx, techID, start, end, 0)
			if checkErr != nil {
				return nil, checkErr
			}
			if !conflict {
				ap.TechnicianID = &techID
			}
		} else if lockErr != lock.ErrNotAcquired {
			return nil, lockErr
		}

		if ap.TechnicianID == nil {
			result = engine.Result{Status: engine.StatusBayOnly, BayID: result.BayID}
		}
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsExclusionConflict(err) && ap.TechnicianID != nil {
			// Exclusion constraint says a concurrent booking took the
			// slot after our recheck. Keep the booking, drop the
			// technician, let backfill retry.
			ap.TechnicianID = nil
			result = engine.Result{Status: engine.StatusBayOnly, BayID: result.BayID}
			if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		ShopID:   in.ShopID,
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if result.Status != engine.StatusAssigned {
		uc.audit.Dispatch(audit.Event{
			ShopID:   in.ShopID,
			UserID:   in.UserID,
			Action:   "assignment_incomplete",
			Entity:   "appointment",
			EntityID: &ap.ID,
			Metadata: map[string]any{"status": result.Status},
		})
	}

	return &CreateAppointmentOutput{
		Appointment: ap,
		Assignment:  result,
	}, nil
}
