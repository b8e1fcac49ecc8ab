package assignment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/lock"
	"github.com/redlinemotors/shop-ops/internal/models"
)

var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

// fakeState backs both the repository and the engine data store, so an
// UpdateAppointment during backfill is visible to the next conflict query,
// exactly like the shared database in production.
type fakeState struct {
	shop         models.Shop
	services     []models.Service
	bays         []models.Bay
	links        []models.BayAssignment
	schedules    []models.TechnicianSchedule
	appointments []models.Appointment
}

type fakeRepo struct{ st *fakeState }

func (r *fakeRepo) GetShopByID(_ context.Context, id uint) (*models.Shop, error) {
	shop := r.st.shop
	return &shop, nil
}

func (r *fakeRepo) GetShopBySlug(context.Context, string) (*models.Shop, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) GetServices(_ context.Context, _ uint, ids []uint) ([]models.Service, error) {
	return lookupServices(r.st, ids), nil
}

func (r *fakeRepo) GetOrCreateCustomer(context.Context, uint, string, string, string, string) (*models.Customer, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.st.appointments = append(r.st.appointments, *ap)
	return nil
}

func (r *fakeRepo) HasTimeConflict(_ context.Context, techID uint, start, end time.Time, excludeID uint) (bool, error) {
	for _, ap := range r.st.appointments {
		if ap.ID == excludeID || ap.TechnicianID == nil || *ap.TechnicianID != techID {
			continue
		}
		if ap.Status == "cancelled" || ap.Status == "no_show" {
			continue
		}
		if start.Before(ap.EndTime) && end.After(ap.StartTime) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) GetAppointmentForShop(context.Context, uint, uint) (*models.Appointment, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range r.st.appointments {
		if r.st.appointments[i].ID == ap.ID {
			r.st.appointments[i] = *ap
			return nil
		}
	}
	return errors.New("appointment not found")
}

func (r *fakeRepo) ListAppointmentsForPeriod(context.Context, uint, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) ListUnassigned(_ context.Context, shopID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.st.appointments {
		if ap.ShopID != shopID || ap.Status != "scheduled" {
			continue
		}
		if ap.TechnicianID == nil || ap.BayID == nil {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

type fakeEngineStore struct{ st *fakeState }

func (s *fakeEngineStore) GetServices(_ context.Context, ids []uint) ([]models.Service, error) {
	return lookupServices(s.st, ids), nil
}

func (s *fakeEngineStore) ListActiveBaysByType(_ context.Context, shopID uint, bayType string) ([]models.Bay, error) {
	var out []models.Bay
	for _, b := range s.st.bays {
		if b.ShopID == shopID && b.BayType == bayType && b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeEngineStore) ListBayAssignments(_ context.Context, bayID uint) ([]models.BayAssignment, error) {
	var out []models.BayAssignment
	for _, l := range s.st.links {
		if l.BayID == bayID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeEngineStore) ListScheduleForDay(_ context.Context, techIDs []uint, weekday int) ([]models.TechnicianSchedule, error) {
	var out []models.TechnicianSchedule
	for _, row := range s.st.schedules {
		if row.Weekday != weekday {
			continue
		}
		for _, id := range techIDs {
			if row.TechnicianID == id {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeEngineStore) ListBookedOnDate(_ context.Context, techIDs []uint, dayStart, dayEnd time.Time, excludeID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range s.st.appointments {
		if ap.ID == excludeID || ap.TechnicianID == nil {
			continue
		}
		if ap.Status == "cancelled" || ap.Status == "no_show" {
			continue
		}
		if ap.StartTime.Before(dayStart) || !ap.StartTime.Before(dayEnd) {
			continue
		}
		for _, id := range techIDs {
			if *ap.TechnicianID == id {
				out = append(out, ap)
				break
			}
		}
	}
	return out, nil
}

func lookupServices(st *fakeState, ids []uint) []models.Service {
	var out []models.Service
	for _, id := range ids {
		for _, s := range st.services {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out
}

func pendingAppointment(id uint, startHM string, durationMin int, services []models.Service) models.Appointment {
	t, _ := time.Parse("15:04", startHM)
	start := monday.Add(time.Duration(t.Hour()*60+t.Minute()) * time.Minute)
	return models.Appointment{
		ID:          id,
		ShopID:      1,
		Services:    services,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(durationMin) * time.Minute),
		DurationMin: durationMin,
		Status:      "scheduled",
	}
}

func newState() *fakeState {
	services := []models.Service{
		{ID: 10, ShopID: 1, DurationMin: 60, Active: true,
			RequiredBayType: catalog.BayGeneralService, RequiredSkillLevel: catalog.SkillIntermediate},
	}
	return &fakeState{
		shop:     models.Shop{ID: 1, Timezone: "UTC"},
		services: services,
		bays: []models.Bay{
			{ID: 1, ShopID: 1, BayType: catalog.BayGeneralService, Active: true},
		},
		links: []models.BayAssignment{
			{TechnicianID: 100, BayID: 1, IsPrimary: true,
				Technician: models.Technician{ID: 100, SkillLevel: catalog.SkillSenior, Active: true}},
		},
		schedules: []models.TechnicianSchedule{
			{TechnicianID: 100, Weekday: 1, StartTime: "07:00", EndTime: "18:00", Active: true},
		},
	}
}

func newBackfill(st *fakeState) *Backfill {
	eng := engine.NewEngine(&fakeEngineStore{st: st}, engine.Options{})
	return NewBackfill(&fakeRepo{st: st}, eng, lock.NewMemory(), nil)
}

func TestBackfill_EarlierAppointmentClaimsSlotFirst(t *testing.T) {
	st := newState()
	st.appointments = []models.Appointment{
		// Deliberately out of order: the 10:00 booking has the lower id.
		pendingAppointment(2, "10:00", 60, st.services),
		pendingAppointment(1, "10:30", 60, st.services),
	}

	report, err := newBackfill(st).Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if report.Scanned != 2 || report.Assigned != 1 || report.BayOnly != 1 {
		t.Fatalf("report = %+v, want scanned 2, assigned 1, bay_only 1", report)
	}

	// The earlier (10:00) appointment must have won the technician.
	for _, ap := range st.appointments {
		switch ap.ID {
		case 2:
			if ap.TechnicianID == nil || *ap.TechnicianID != 100 {
				t.Errorf("appointment 2 (earlier) technician = %v, want 100", ap.TechnicianID)
			}
		case 1:
			if ap.TechnicianID != nil {
				t.Errorf("appointment 1 (overlapping, later) technician = %v, want unset", *ap.TechnicianID)
			}
			if ap.BayID == nil {
				t.Error("appointment 1 should still receive a bay")
			}
		}
	}
}

func TestBackfill_BackToBackBothAssigned(t *testing.T) {
	st := newState()
	st.appointments = []models.Appointment{
		pendingAppointment(1, "09:00", 60, st.services),
		pendingAppointment(2, "10:00", 60, st.services),
	}

	report, err := newBackfill(st).Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if report.Assigned != 2 {
		t.Fatalf("report = %+v, want both assigned", report)
	}
}

func TestBackfill_ExistingAssignedBookingBlocks(t *testing.T) {
	st := newState()
	taken := pendingAppointment(5, "09:00", 60, st.services)
	techID := uint(100)
	bayID := uint(1)
	taken.TechnicianID = &techID
	taken.BayID = &bayID

	st.appointments = []models.Appointment{
		taken,
		pendingAppointment(6, "09:30", 60, st.services),
	}

	report, err := newBackfill(st).Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if report.Scanned != 1 || report.BayOnly != 1 {
		t.Fatalf("report = %+v, want 1 scanned, 1 bay_only", report)
	}
}

func TestBackfill_NothingPending(t *testing.T) {
	st := newState()

	report, err := newBackfill(st).Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Scanned != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestBackfill_NoOverlapAfterRun(t *testing.T) {
	st := newState()
	st.appointments = []models.Appointment{
		pendingAppointment(1, "09:00", 60, st.services),
		pendingAppointment(2, "09:30", 60, st.services),
		pendingAppointment(3, "10:00", 60, st.services),
		pendingAppointment(4, "11:00", 60, st.services),
	}

	if _, err := newBackfill(st).Execute(context.Background(), 1); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Safety invariant: no two assigned appointments of the same
	// technician may overlap under the half-open interval test.
	for i, a := range st.appointments {
		for j, b := range st.appointments {
			if i >= j || a.TechnicianID == nil || b.TechnicianID == nil {
				continue
			}
			if *a.TechnicianID != *b.TechnicianID {
				continue
			}
			if a.StartTime.Before(b.EndTime) && a.EndTime.After(b.StartTime) {
				t.Errorf("appointments %d and %d overlap on technician %d", a.ID, b.ID, *a.TechnicianID)
			}
		}
	}
}
