package assignment

import (
	"context"
	"log"
	"time"

	"github.com/redlinemotors/shop-ops/internal/audit"
	domain "github.com/redlinemotors/shop-ops/internal/domain/appointment"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/httperr"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/models"
	"github.com/redlinemotors/shop-ops/internal/timezone"
)

const slotLockTTL = 10 * time.Second

type Report struct {
	Scanned    int `json:"scanned"`
	Assigned   int `json:"assigned"`
	BayOnly    int `json:"bay_only"`
	Unassigned int `json:"unassigned"`
}

// Backfill is the bulk adapter around the assignment engine: it walks
// scheduled appointments missing a bay and/or technician in ascending
// start-time order and re-runs assignment for each. The ordering matters:
// an earlier appointment must claim its slot before a later one is
// considered, or both could land on the same technician.
type Backfill struct {
	repo   domain.Repository
	engine *engine.Engine
	locker lock.Locker
	audit  *audit.Dispatcher
}

func NewBackfill(
	repo domain.Repository,
	eng *engine.Engine,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *Backfill {
	return &Backfill{
		repo:   repo,
		engine: eng,
		locker: locker,
		audit:  audit,
	}
}

func (uc *Backfill) Execute(ctx context.Context, shopID uint) (Report, error) {
	var report Report

	shop, err := uc.repo.GetShopByID(ctx, shopID)
	if err != nil {
		return report, err
	}
	loc := timezone.Location(shop.Timezone)

	pending, err := uc.repo.ListUnassigned(ctx, shopID)
	if err != nil {
		return report, err
	}

	for i := range pending {
		ap := &pending[i]
		report.Scanned++

		result, err := uc.assignOne(ctx, shopID, ap, loc)
		if err != nil {
			// Infrastructure errors abort the run; partial progress is
			// already persisted and a re-run resumes where we stopped.
			return report, err
		}

		switch result.Status {
		case engine.StatusAssigned:
			report.Assigned++
		case engine.StatusBayOnly:
			report.BayOnly++
		default:
			report.Unassigned++
		}
	}

	if report.Scanned > 0 && uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ShopID:   shopID,
			Action:   "assignment_backfill",
			Entity:   "appointment",
			Metadata: report,
		})
	}

	return report, nil
}

func (uc *Backfill) assignOne(
	ctx context.Context,
	shopID uint,
	ap *models.Appointment,
	loc *time.Location,
) (engine.Result, error) {

	serviceIDs := make([]uint, 0, len(ap.Services))
	for _, s := range ap.Services {
		serviceIDs = append(serviceIDs, s.ID)
	}

	start := ap.StartTime.In(loc)
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	duration := ap.DurationMin
	if duration <= 0 {
		duration = int(ap.EndTime.Sub(ap.StartTime).Minutes())
	}

	result, err := uc.engine.Assign(ctx, engine.Request{
		ShopID:        shopID,
		AppointmentID: ap.ID,
		ServiceIDs:    serviceIDs,
		Date:          dayStart,
		StartMinute:   start.Hour()*60 + start.Minute(),
		DurationMin:   duration,
	})
	if err != nil {
		return engine.Result{}, err
	}

	changed := false

	if ap.BayID == nil && result.BayID != 0 {
		bayID := result.BayID
		ap.BayID = &bayID
		changed = true
	}

	if ap.TechnicianID == nil && result.Status == engine.StatusAssigned {
		techID := result.TechnicianID

		release, lockErr := uc.locker.Acquire(ctx, lock.SlotKey(techID, dayStart), slotLockTTL)
		if lockErr == nil {
			conflict, checkErr := uc.repo.HasTimeConflict(ctx, techID, ap.StartTime, ap.EndTime, ap.ID)
			if checkErr != nil {
				release()
				return engine.Result{}, checkErr
			}
			if !conflict {
				ap.TechnicianID = &techID
				changed = true
			}
			release()
		} else if lockErr != lock.ErrNotAcquired {
			return engine.Result{}, lockErr
		}

		if ap.TechnicianID == nil {
			result = engine.Result{Status: engine.StatusBayOnly, BayID: result.BayID}
		}
	}

	if !changed {
		return result, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		if ap.TechnicianID != nil && httperr.IsExclusionConflict(err) {
			log.Printf("backfill: slot taken for appointment %d, leaving technician unset", ap.ID)
			ap.TechnicianID = nil
			result = engine.Result{Status: engine.StatusBayOnly, BayID: result.BayID}
			if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
				return engine.Result{}, err
			}
			return result, nil
		}
		return engine.Result{}, err
	}

	return result, nil
}
