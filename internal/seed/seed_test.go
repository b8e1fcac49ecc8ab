package seed

import (
	"testing"
	"time"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	"github.com/redlinemotors/shop-ops/internal/models"
)

func demoServices() []models.Service {
	return []models.Service{
		{ID: 1, DurationMin: 30, RequiredBayType: catalog.BayExpressLane},
		{ID: 2, DurationMin: 30, RequiredBayType: catalog.BayQuickService},
		{ID: 3, DurationMin: 90, RequiredBayType: catalog.BayGeneralService},
		{ID: 4, DurationMin: 60, RequiredBayType: catalog.BayAlignment},
		{ID: 5, DurationMin: 60, RequiredBayType: catalog.BayDiagnostic},
		{ID: 6, DurationMin: 480, RequiredBayType: catalog.BayHeavyRepair},
	}
}

func TestPendingAppointments_AllNeedAssignment(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	apps := pendingAppointments(1, 10, demoServices(), time.UTC, now)

	if len(apps) == 0 {
		t.Fatal("expected seeded appointments")
	}

	for i, ap := range apps {
		if ap.BayID != nil || ap.TechnicianID != nil {
			t.Errorf("appointment %d already has resources, backfill would skip it", i)
		}
		if ap.Status != "scheduled" {
			t.Errorf("appointment %d status = %s, want scheduled", i, ap.Status)
		}
		if !ap.StartTime.After(now) {
			t.Errorf("appointment %d starts %v, want after %v", i, ap.StartTime, now)
		}
		if ap.Code == "" {
			t.Errorf("appointment %d has no public code", i)
		}
		want := ap.StartTime.Add(time.Duration(ap.DurationMin) * time.Minute)
		if !ap.EndTime.Equal(want) {
			t.Errorf("appointment %d end = %v, want %v", i, ap.EndTime, want)
		}
	}
}

func TestPendingAppointments_LandOnAStaffedWeekday(t *testing.T) {
	// Demo technicians work Monday through Friday; whatever "now" is, the
	// seeded bookings must land on a Monday at least two days out.
	for offset := 0; offset < 7; offset++ {
		now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, offset)

		apps := pendingAppointments(1, 10, demoServices(), time.UTC, now)

		for i, ap := range apps {
			if ap.StartTime.Weekday() != time.Monday {
				t.Errorf("now=%v: appointment %d on %v, want Monday", now, i, ap.StartTime.Weekday())
			}
			if ap.StartTime.Sub(now) < 24*time.Hour {
				t.Errorf("now=%v: appointment %d starts %v, too soon", now, i, ap.StartTime)
			}
		}
	}
}

func TestPendingAppointments_ContainOverlapForBackfillDemo(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	apps := pendingAppointments(1, 10, demoServices(), time.UTC, now)

	overlap := false
	for i, a := range apps {
		for j, b := range apps {
			if i >= j {
				continue
			}
			if a.StartTime.Before(b.EndTime) && a.EndTime.After(b.StartTime) {
				overlap = true
			}
		}
	}
	if !overlap {
		t.Error("seed should include an overlapping pair so backfill demonstrates bay_only")
	}
}
