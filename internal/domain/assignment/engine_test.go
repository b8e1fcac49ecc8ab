package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	"github.com/redlinemotors/shop-ops/internal/models"
)

// monday is a shop-local Monday at midnight.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func uintPtr(v uint) *uint { return &v }

func bookedAt(id uint, techID uint, startHM, endHM string, status string) models.Appointment {
	sm, _ := parseClock(startHM)
	em, _ := parseClock(endHM)
	return models.Appointment{
		ID:           id,
		TechnicianID: uintPtr(techID),
		StartTime:    monday.Add(time.Duration(sm) * time.Minute),
		EndTime:      monday.Add(time.Duration(em) * time.Minute),
		Status:       status,
	}
}

// baseFixture: shop 1, one general_service bay B1 with senior technician X
// (primary link) scheduled Monday 07:00-18:00, one intermediate-level
// service taking 60 minutes.
func baseFixture() ([]models.Service, []models.Bay, []models.BayAssignment, []models.TechnicianSchedule) {
	services := []models.Service{
		{ID: 10, ShopID: 1, DurationMin: 60, RequiredBayType: catalog.BayGeneralService, RequiredSkillLevel: catalog.SkillIntermediate},
	}
	bays := []models.Bay{
		{ID: 1, ShopID: 1, Name: "B1", BayType: catalog.BayGeneralService, Active: true},
	}
	links := []models.BayAssignment{
		{TechnicianID: 100, BayID: 1, IsPrimary: true,
			Technician: models.Technician{ID: 100, Name: "X", SkillLevel: catalog.SkillSenior, Active: true}},
	}
	schedules := []models.TechnicianSchedule{
		{TechnicianID: 100, Weekday: 1, StartTime: "07:00", EndTime: "18:00", Active: true},
	}
	return services, bays, links, schedules
}

func request(startHM string, durationMin int, serviceIDs ...uint) Request {
	sm, _ := parseClock(startHM)
	if len(serviceIDs) == 0 {
		serviceIDs = []uint{10}
	}
	return Request{
		ShopID:      1,
		ServiceIDs:  serviceIDs,
		Date:        monday,
		StartMinute: sm,
		DurationMin: durationMin,
	}
}

func TestAssign_FreeTechnicianGetsAssigned(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Fatalf("status = %s, want assigned", res.Status)
	}
	if res.BayID != 1 || res.TechnicianID != 100 {
		t.Errorf("got (bay %d, tech %d), want (1, 100)", res.BayID, res.TechnicianID)
	}
}

func TestAssign_BookedTechnicianYieldsBayOnly(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	booked := []models.Appointment{bookedAt(7, 100, "09:00", "10:00", "scheduled")}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, booked), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusBayOnly {
		t.Fatalf("status = %s, want bay_only", res.Status)
	}
	if res.BayID != 1 {
		t.Errorf("bay = %d, want 1", res.BayID)
	}
	if res.TechnicianID != 0 {
		t.Errorf("technician = %d, want none", res.TechnicianID)
	}
}

func TestAssign_SkillBarNotMet(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	services[0].RequiredSkillLevel = catalog.SkillMaster // X is only senior

	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	// Bay selection is independent of technician filtering.
	if res.Status != StatusBayOnly || res.BayID != 1 {
		t.Errorf("got %+v, want bay_only on bay 1", res)
	}
}

func TestAssign_PrimaryLinkBeatsHigherSkill(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	links = append(links, models.BayAssignment{
		TechnicianID: 200, BayID: 1, IsPrimary: false,
		Technician: models.Technician{ID: 200, Name: "Z", SkillLevel: catalog.SkillMaster, Active: true},
	})
	schedules = append(schedules, models.TechnicianSchedule{
		TechnicianID: 200, Weekday: 1, StartTime: "07:00", EndTime: "18:00", Active: true,
	})

	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.TechnicianID != 100 {
		t.Errorf("technician = %d, want primary-linked 100", res.TechnicianID)
	}
}

func TestAssign_LowestSufficientSkillWins(t *testing.T) {
	services, bays, _, _ := baseFixture()
	links := []models.BayAssignment{
		{TechnicianID: 300, BayID: 1, IsPrimary: true,
			Technician: models.Technician{ID: 300, SkillLevel: catalog.SkillMaster, Active: true}},
		{TechnicianID: 301, BayID: 1, IsPrimary: true,
			Technician: models.Technician{ID: 301, SkillLevel: catalog.SkillIntermediate, Active: true}},
	}
	schedules := []models.TechnicianSchedule{
		{TechnicianID: 300, Weekday: 1, StartTime: "07:00", EndTime: "18:00", Active: true},
		{TechnicianID: 301, Weekday: 1, StartTime: "07:00", EndTime: "18:00", Active: true},
	}

	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.TechnicianID != 301 {
		t.Errorf("technician = %d, want 301 (intermediate, not master)", res.TechnicianID)
	}
}

func TestAssign_BackToBackSlotsAllowed(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	booked := []models.Appointment{bookedAt(7, 100, "09:00", "10:00", "scheduled")}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, booked), Options{})

	// 10:00-11:00 touches 09:00-10:00 but does not overlap.
	res, err := engine.Assign(context.Background(), request("10:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Errorf("back-to-back slot: status = %s, want assigned", res.Status)
	}

	// 09:30-10:30 truly overlaps.
	res, err = engine.Assign(context.Background(), request("09:30", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusBayOnly {
		t.Errorf("overlapping slot: status = %s, want bay_only", res.Status)
	}
}

func TestAssign_CancelledAndNoShowDoNotBlock(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	booked := []models.Appointment{
		bookedAt(7, 100, "09:00", "10:00", "cancelled"),
		bookedAt(8, 100, "09:00", "10:00", "no_show"),
	}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, booked), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Errorf("status = %s, want assigned", res.Status)
	}
}

func TestAssign_SelfExclusionOnReassign(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	booked := []models.Appointment{bookedAt(42, 100, "09:00", "10:00", "scheduled")}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, booked), Options{})

	req := request("09:00", 60)
	req.AppointmentID = 42 // re-assigning the very appointment that holds the slot

	res, err := engine.Assign(context.Background(), req)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Errorf("status = %s, want assigned (own booking must not conflict)", res.Status)
	}
}

func TestAssign_ShiftEndingMidAppointmentRejected(t *testing.T) {
	services, bays, links, _ := baseFixture()
	schedules := []models.TechnicianSchedule{
		{TechnicianID: 100, Weekday: 1, StartTime: "07:00", EndTime: "10:00", Active: true},
	}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:30", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusBayOnly {
		t.Errorf("status = %s, want bay_only (shift ends 10:00)", res.Status)
	}
}

func TestAssign_SecondIntervalSameDayCovers(t *testing.T) {
	services, bays, links, _ := baseFixture()
	schedules := []models.TechnicianSchedule{
		{TechnicianID: 100, Weekday: 1, StartTime: "07:00", EndTime: "09:00", Active: true},
		{TechnicianID: 100, Weekday: 1, StartTime: "09:30", EndTime: "12:00", Active: true},
	}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("10:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Errorf("status = %s, want assigned via second interval", res.Status)
	}
}

func TestAssign_NotScheduledThatDay(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	req := request("09:00", 60)
	req.Date = monday.AddDate(0, 0, 1) // Tuesday: no schedule rows

	res, err := engine.Assign(context.Background(), req)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusBayOnly {
		t.Errorf("status = %s, want bay_only", res.Status)
	}
}

func TestAssign_MostDemandingBayTypeWins(t *testing.T) {
	services := []models.Service{
		{ID: 10, ShopID: 1, RequiredBayType: catalog.BayQuickService},
		{ID: 11, ShopID: 1, RequiredBayType: catalog.BayDiagnostic},
	}
	bays := []models.Bay{
		{ID: 1, ShopID: 1, BayType: catalog.BayQuickService, Active: true},
		{ID: 2, ShopID: 1, BayType: catalog.BayDiagnostic, Active: true},
	}
	engine := NewEngine(fixtureStore(services, bays, nil, nil, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60, 10, 11))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.BayID != 2 {
		t.Errorf("bay = %d, want diagnostic bay 2", res.BayID)
	}
}

func TestAssign_FallbackToGeneralService(t *testing.T) {
	services := []models.Service{
		{ID: 10, ShopID: 1, RequiredBayType: catalog.BayHeavyRepair},
	}
	bays := []models.Bay{
		{ID: 3, ShopID: 1, BayType: catalog.BayGeneralService, Active: true},
	}
	engine := NewEngine(fixtureStore(services, bays, nil, nil, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusBayOnly || res.BayID != 3 {
		t.Errorf("got %+v, want general_service fallback bay 3", res)
	}
}

func TestAssign_NoBayAnywhere(t *testing.T) {
	services := []models.Service{
		{ID: 10, ShopID: 1, RequiredBayType: catalog.BayHeavyRepair},
	}
	engine := NewEngine(fixtureStore(services, nil, nil, nil, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusUnassigned || res.BayID != 0 {
		t.Errorf("got %+v, want unassigned with no bay", res)
	}
}

func TestAssign_InactiveBayAndTechnicianIgnored(t *testing.T) {
	services, _, _, schedules := baseFixture()
	bays := []models.Bay{
		{ID: 1, ShopID: 1, BayType: catalog.BayGeneralService, Active: false},
		{ID: 2, ShopID: 1, BayType: catalog.BayGeneralService, Active: true},
	}
	links := []models.BayAssignment{
		{TechnicianID: 100, BayID: 2, IsPrimary: true,
			Technician: models.Technician{ID: 100, SkillLevel: catalog.SkillSenior, Active: false}},
	}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.BayID != 2 {
		t.Errorf("bay = %d, want active bay 2", res.BayID)
	}
	if res.Status != StatusBayOnly {
		t.Errorf("status = %s, want bay_only (inactive technician)", res.Status)
	}
}

func TestAssign_LenientDefaultsUnknownService(t *testing.T) {
	// Service 99 does not exist: lenient mode treats the request as
	// lowest-tier (general_service, junior).
	_, bays, links, schedules := baseFixture()
	engine := NewEngine(fixtureStore(nil, bays, links, schedules, nil), Options{})

	res, err := engine.Assign(context.Background(), request("09:00", 60, 99))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if res.Status != StatusAssigned {
		t.Errorf("status = %s, want assigned via defaults", res.Status)
	}
}

func TestAssign_StrictRejectsUnknownService(t *testing.T) {
	_, bays, links, schedules := baseFixture()
	engine := NewEngine(fixtureStore(nil, bays, links, schedules, nil), Options{Strict: true})

	_, err := engine.Assign(context.Background(), request("09:00", 60, 99))
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("err = %v, want ErrUnknownService", err)
	}
}

func TestAssign_StoreErrorPropagates(t *testing.T) {
	infraErr := errors.New("connection refused")
	store := &MockDataStore{
		GetServicesFunc: func(context.Context, []uint) ([]models.Service, error) {
			return nil, infraErr
		},
	}
	engine := NewEngine(store, Options{})

	_, err := engine.Assign(context.Background(), request("09:00", 60))
	if !errors.Is(err, infraErr) {
		t.Fatalf("err = %v, want wrapped infrastructure error", err)
	}
	if errors.Is(err, ErrUnknownService) || errors.Is(err, ErrInvalidTag) {
		t.Error("infrastructure error must not look like a data-integrity error")
	}
}

func TestQualifiedTechs_Idempotent(t *testing.T) {
	services, bays, links, schedules := baseFixture()
	store := fixtureStore(services, bays, links, schedules, nil)
	engine := NewEngine(store, Options{})

	first, err := engine.qualifiedTechs(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("qualifiedTechs: %v", err)
	}
	second, err := engine.qualifiedTechs(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("qualifiedTechs: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("candidate counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Technician.ID != second[i].Technician.ID {
			t.Errorf("candidate %d differs: %d vs %d", i, first[i].Technician.ID, second[i].Technician.ID)
		}
	}
}

func TestProbe_DoesNotAdvanceRotation(t *testing.T) {
	services, _, links, schedules := baseFixture()
	bays := []models.Bay{
		{ID: 1, ShopID: 1, BayType: catalog.BayGeneralService, Active: true},
		{ID: 2, ShopID: 1, BayType: catalog.BayGeneralService, Active: true},
	}
	engine := NewEngine(fixtureStore(services, bays, links, schedules, nil), Options{})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		res, err := engine.Probe(ctx, request("09:00", 60))
		if err != nil {
			t.Fatalf("Probe: %v", err)
		}
		if res.BayID != 1 {
			t.Fatalf("probe %d picked bay %d, want 1 every time", i, res.BayID)
		}
	}

	// A real Assign still rotates from the untouched counter.
	res, _ := engine.Assign(ctx, request("09:00", 60))
	if res.BayID != 1 {
		t.Errorf("first Assign picked bay %d, want 1", res.BayID)
	}
	res, _ = engine.Assign(ctx, request("09:00", 60))
	if res.BayID != 2 {
		t.Errorf("second Assign picked bay %d, want 2", res.BayID)
	}
}
