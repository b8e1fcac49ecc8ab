// Package assignment implements the resource assignment engine: given the
// services requested for an appointment, it picks a service bay and a
// qualified technician such that capability, weekly schedule, and
// time-conflict constraints all hold.
//
// The pipeline narrows a candidate set stage by stage: bay selection →
// technician qualification → schedule availability → conflict detection →
// ranking. An empty set at any stage is a normal outcome (bay_only or
// unassigned), never an error.
package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	"github.com/redlinemotors/shop-ops/internal/models"
)

type Options struct {
	// Strict rejects requests referencing unknown service ids or invalid
	// catalog tags instead of defaulting them to the lowest tier.
	Strict bool
}

type Engine struct {
	store    DataStore
	rotation *Rotation
	opts     Options
}

func NewEngine(store DataStore, opts Options) *Engine {
	return &Engine{
		store:    store,
		rotation: NewRotation(),
		opts:     opts,
	}
}

type candidate struct {
	Technician models.Technician
	IsPrimary  bool
	skillRank  int
}

// Assign runs the full pipeline and advances the bay rotation counter.
func (e *Engine) Assign(ctx context.Context, req Request) (Result, error) {
	return e.run(ctx, req, false)
}

// Probe is Assign without side effects on the rotation state. Availability
// listings use it to ask "would this slot get a technician?" many times
// per request.
func (e *Engine) Probe(ctx context.Context, req Request) (Result, error) {
	return e.run(ctx, req, true)
}

func (e *Engine) run(ctx context.Context, req Request, peek bool) (Result, error) {
	services, err := e.resolveServices(ctx, req.ServiceIDs)
	if err != nil {
		return Result{}, err
	}

	// Stage 1: bay selection
	bay, err := e.selectBay(ctx, req.ShopID, services, peek)
	if err != nil {
		return Result{}, err
	}
	if bay == nil {
		return Result{Status: StatusUnassigned}, nil
	}

	skillBar, err := e.requiredSkillRank(services)
	if err != nil {
		return Result{}, err
	}

	// Stage 2: qualification
	cands, err := e.qualifiedTechs(ctx, bay.ID, skillBar)
	if err != nil {
		return Result{}, err
	}

	winStart := req.Date.Add(time.Duration(req.StartMinute) * time.Minute)
	winEnd := winStart.Add(time.Duration(req.DurationMin) * time.Minute)

	// Stage 3: weekly schedule availability
	if len(cands) > 0 {
		cands, err = e.filterScheduled(ctx, cands, int(req.Date.Weekday()), req.StartMinute, req.StartMinute+req.DurationMin)
		if err != nil {
			return Result{}, err
		}
	}

	// Stage 4: conflicts with existing bookings
	if len(cands) > 0 {
		cands, err = e.filterConflicts(ctx, cands, req.Date, winStart, winEnd, req.AppointmentID)
		if err != nil {
			return Result{}, err
		}
	}

	// Stage 5: ranking
	picked := pickTechnician(cands)
	if picked == nil {
		return Result{Status: StatusBayOnly, BayID: bay.ID}, nil
	}

	return Result{
		Status:       StatusAssigned,
		BayID:        bay.ID,
		TechnicianID: picked.Technician.ID,
	}, nil
}

// --------------------------------------------------
// Service resolution
// --------------------------------------------------

func (e *Engine) resolveServices(ctx context.Context, serviceIDs []uint) ([]models.Service, error) {
	services, err := e.store.GetServices(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}

	if e.opts.Strict && len(services) != len(serviceIDs) {
		found := make(map[uint]bool, len(services))
		for _, s := range services {
			found[s.ID] = true
		}
		for _, id := range serviceIDs {
			if !found[id] {
				return nil, fmt.Errorf("%w: id %d", ErrUnknownService, id)
			}
		}
	}

	return services, nil
}

// --------------------------------------------------
// Stage 1: bay selection
// --------------------------------------------------

// selectBay resolves the single most demanding bay-type requirement across
// the requested services (a bay fit for the hardest job hosts the simpler
// ones too) and picks one active bay of that type round-robin. Falls back
// to general_service when no bay of the required type exists; returns nil
// when there is no bay at all.
func (e *Engine) selectBay(ctx context.Context, shopID uint, services []models.Service, peek bool) (*models.Bay, error) {
	need := catalog.DefaultBayType
	needRank, _ := catalog.BayTypeRank(need)

	for _, s := range services {
		tag := s.RequiredBayType
		if tag == "" {
			continue
		}
		r, ok := catalog.BayTypeRank(tag)
		if !ok {
			if e.opts.Strict {
				return nil, fmt.Errorf("%w: bay type %q on service %d", ErrInvalidTag, tag, s.ID)
			}
			continue
		}
		if r > needRank {
			need = tag
			needRank = r
		}
	}

	bays, err := e.store.ListActiveBaysByType(ctx, shopID, need)
	if err != nil {
		return nil, fmt.Errorf("list bays: %w", err)
	}

	bayType := need
	if len(bays) == 0 && need != catalog.DefaultBayType {
		bayType = catalog.DefaultBayType
		bays, err = e.store.ListActiveBaysByType(ctx, shopID, bayType)
		if err != nil {
			return nil, fmt.Errorf("list fallback bays: %w", err)
		}
	}
	if len(bays) == 0 {
		return nil, nil
	}

	var idx int
	if peek {
		idx = e.rotation.Peek(shopID, bayType, len(bays))
	} else {
		idx = e.rotation.Next(shopID, bayType, len(bays))
	}

	return &bays[idx], nil
}

// --------------------------------------------------
// Stage 2: qualification
// --------------------------------------------------

func (e *Engine) requiredSkillRank(services []models.Service) (int, error) {
	bar, _ := catalog.SkillRank(catalog.DefaultSkillLevel)

	for _, s := range services {
		tag := s.RequiredSkillLevel
		if tag == "" {
			continue
		}
		r, ok := catalog.SkillRank(tag)
		if !ok {
			if e.opts.Strict {
				return 0, fmt.Errorf("%w: skill level %q on service %d", ErrInvalidTag, tag, s.ID)
			}
			continue
		}
		if r > bar {
			bar = r
		}
	}

	return bar, nil
}

func (e *Engine) qualifiedTechs(ctx context.Context, bayID uint, minSkillRank int) ([]candidate, error) {
	links, err := e.store.ListBayAssignments(ctx, bayID)
	if err != nil {
		return nil, fmt.Errorf("list bay assignments: %w", err)
	}

	var out []candidate
	for _, link := range links {
		tech := link.Technician
		if !tech.Active {
			continue
		}

		rank, ok := catalog.SkillRank(tech.SkillLevel)
		if !ok {
			rank, _ = catalog.SkillRank(catalog.DefaultSkillLevel)
		}
		if rank < minSkillRank {
			continue
		}

		out = append(out, candidate{
			Technician: tech,
			IsPrimary:  link.IsPrimary,
			skillRank:  rank,
		})
	}

	return out, nil
}

// --------------------------------------------------
// Stage 3: weekly schedule availability
// --------------------------------------------------

// filterScheduled keeps technicians with at least one active schedule
// interval on the weekday fully containing [startMin, endMin). A shift
// that ends mid-appointment does not count.
func (e *Engine) filterScheduled(ctx context.Context, cands []candidate, weekday, startMin, endMin int) ([]candidate, error) {
	rows, err := e.store.ListScheduleForDay(ctx, techIDs(cands), weekday)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	covered := make(map[uint]bool)
	for _, row := range rows {
		if !row.Active {
			continue
		}
		shiftStart, err1 := parseClock(row.StartTime)
		shiftEnd, err2 := parseClock(row.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if shiftStart <= startMin && shiftEnd >= endMin {
			covered[row.TechnicianID] = true
		}
	}

	return keep(cands, func(c candidate) bool {
		return covered[c.Technician.ID]
	}), nil
}

// --------------------------------------------------
// Stage 4: conflict detection
// --------------------------------------------------

// filterConflicts drops technicians with an existing booking overlapping
// [winStart, winEnd). Half-open intervals: touching endpoints do not
// conflict, so back-to-back bookings are allowed.
func (e *Engine) filterConflicts(ctx context.Context, cands []candidate, date, winStart, winEnd time.Time, excludeID uint) ([]candidate, error) {
	dayStart := date
	dayEnd := dayStart.Add(24 * time.Hour)

	booked, err := e.store.ListBookedOnDate(ctx, techIDs(cands), dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	busy := make(map[uint]bool)
	for _, ap := range booked {
		if ap.TechnicianID == nil {
			continue
		}
		if winStart.Before(ap.EndTime) && winEnd.After(ap.StartTime) {
			busy[*ap.TechnicianID] = true
		}
	}

	return keep(cands, func(c candidate) bool {
		return !busy[c.Technician.ID]
	}), nil
}

// --------------------------------------------------
// Stage 5: ranking
// --------------------------------------------------

// pickTechnician applies the tie-break policy: a primary bay link beats a
// non-primary one; among those, the lowest skill rank that still meets the
// bar wins, keeping higher-skill technicians free for jobs that need them.
// Remaining ties go to the first candidate encountered.
func pickTechnician(cands []candidate) *candidate {
	if len(cands) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(cands); i++ {
		if betterCandidate(cands[i], cands[best]) {
			best = i
		}
	}
	return &cands[best]
}

func betterCandidate(a, b candidate) bool {
	if a.IsPrimary != b.IsPrimary {
		return a.IsPrimary
	}
	return a.skillRank < b.skillRank
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func techIDs(cands []candidate) []uint {
	ids := make([]uint, 0, len(cands))
	for _, c := range cands {
		ids = append(ids, c.Technician.ID)
	}
	return ids
}

func keep(cands []candidate, pred func(candidate) bool) []candidate {
	out := cands[:0:0]
	for _, c := range cands {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func parseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseClock exposes wall-clock parsing for callers building Requests
// from "15:04" strings.
func ParseClock(hm string) (int, error) {
	return parseClock(hm)
}
