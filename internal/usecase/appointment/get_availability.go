package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/redlinemotors/shop-ops/internal/domain/appointment"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/httperr"
	"github.com/redlinemotors/shop-ops/internal/timezone"
)

const slotStepMinutes = 30

// GetAvailability lists the bookable slots of a day for a requested
// service set by probing the assignment engine per slot. Probe leaves the
// bay rotation untouched, so browsing availability does not skew load
// spreading.
type GetAvailability struct {
	repo   domain.Repository
	engine *engine.Engine
}

func NewGetAvailability(
	repo domain.Repository,
	eng *engine.Engine,
) *GetAvailability {
	return &GetAvailability{
		repo:   repo,
		engine: eng,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	shop, err := uc.repo.GetShopByID(ctx, in.ShopID)
	if err != nil {
		return nil, err
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
		duration += s.DurationMin
	}
	if duration <= 0 {
		return []domain.TimeSlot{}, nil
	}

	loc := timezone.Location(shop.Timezone)
	dayStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 60
	}
	earliest := timezone.NowIn(shop.Timezone).Add(time.Duration(minAdvance) * time.Minute)

	slots := []domain.TimeSlot{}

	for startMin := 0; startMin+duration <= 24*60; startMin += slotStepMinutes {
		slotStart := dayStart.Add(time.Duration(startMin) * time.Minute)
		if slotStart.Before(earliest) {
			continue
		}

		res, err := uc.engine.Probe(ctx, engine.Request{
			ShopID:      in.ShopID,
			ServiceIDs:  in.ServiceIDs,
			Date:        dayStart,
			StartMinute: startMin,
			DurationMin: duration,
		})
		if err != nil {
			return nil, err
		}

		if res.Status == engine.StatusAssigned {
			slots = append(slots, domain.TimeSlot{
				Start: clock(startMin),
				End:   clock(startMin + duration),
			})
		}
	}

	return slots, nil
}

func clock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
