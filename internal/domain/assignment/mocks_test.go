package assignment

import (
	"context"
	"time"

	"github.com/redlinemotors/shop-ops/internal/models"
)

type MockDataStore struct {
	GetServicesFunc          func(ctx context.Context, serviceIDs []uint) ([]models.Service, error)
	ListActiveBaysByTypeFunc func(ctx context.Context, shopID uint, bayType string) ([]models.Bay, error)
	ListBayAssignmentsFunc   func(ctx context.Context, bayID uint) ([]models.BayAssignment, error)
	ListScheduleForDayFunc   func(ctx context.Context, technicianIDs []uint, weekday int) ([]models.TechnicianSchedule, error)
	ListBookedOnDateFunc     func(ctx context.Context, technicianIDs []uint, dayStart, dayEnd time.Time, excludeAppointmentID uint) ([]models.Appointment, error)
}

func (m *MockDataStore) GetServices(ctx context.Context, serviceIDs []uint) ([]models.Service, error) {
	if m.GetServicesFunc != nil {
		return m.GetServicesFunc(ctx, serviceIDs)
	}
	return nil, nil
}

func (m *MockDataStore) ListActiveBaysByType(ctx context.Context, shopID uint, bayType string) ([]models.Bay, error) {
	if m.ListActiveBaysByTypeFunc != nil {
		return m.ListActiveBaysByTypeFunc(ctx, shopID, bayType)
	}
	return nil, nil
}

func (m *MockDataStore) ListBayAssignments(ctx context.Context, bayID uint) ([]models.BayAssignment, error) {
	if m.ListBayAssignmentsFunc != nil {
		return m.ListBayAssignmentsFunc(ctx, bayID)
	}
	return nil, nil
}

func (m *MockDataStore) ListScheduleForDay(ctx context.Context, technicianIDs []uint, weekday int) ([]models.TechnicianSchedule, error) {
	if m.ListScheduleForDayFunc != nil {
		return m.ListScheduleForDayFunc(ctx, technicianIDs, weekday)
	}
	return nil, nil
}

func (m *MockDataStore) ListBookedOnDate(ctx context.Context, technicianIDs []uint, dayStart, dayEnd time.Time, excludeAppointmentID uint) ([]models.Appointment, error) {
	if m.ListBookedOnDateFunc != nil {
		return m.ListBookedOnDateFunc(ctx, technicianIDs, dayStart, dayEnd, excludeAppointmentID)
	}
	return nil, nil
}

var _ DataStore = (*MockDataStore)(nil)

// fixtureStore wires a MockDataStore over plain slices, applying the same
// filtering the gorm repository would.
func fixtureStore(
	services []models.Service,
	bays []models.Bay,
	links []models.BayAssignment,
	schedules []models.TechnicianSchedule,
	booked []models.Appointment,
) *MockDataStore {

	return &MockDataStore{
		GetServicesFunc: func(_ context.Context, ids []uint) ([]models.Service, error) {
			var out []models.Service
			for _, id := range ids {
				for _, s := range services {
					if s.ID == id {
						out = append(out, s)
					}
				}
			}
			return out, nil
		},
		ListActiveBaysByTypeFunc: func(_ context.Context, shopID uint, bayType string) ([]models.Bay, error) {
			var out []models.Bay
			for _, b := range bays {
				if b.ShopID == shopID && b.BayType == bayType && b.Active {
					out = append(out, b)
				}
			}
			return out, nil
		},
		ListBayAssignmentsFunc: func(_ context.Context, bayID uint) ([]models.BayAssignment, error) {
			var out []models.BayAssignment
			for _, l := range links {
				if l.BayID == bayID {
					out = append(out, l)
				}
			}
			return out, nil
		},
		ListScheduleForDayFunc: func(_ context.Context, techIDs []uint, weekday int) ([]models.TechnicianSchedule, error) {
			var out []models.TechnicianSchedule
			for _, s := range schedules {
				if s.Weekday != weekday {
					continue
				}
				for _, id := range techIDs {
					if s.TechnicianID == id {
						out = append(out, s)
						break
					}
				}
			}
			return out, nil
		},
		ListBookedOnDateFunc: func(_ context.Context, techIDs []uint, dayStart, dayEnd time.Time, excludeID uint) ([]models.Appointment, error) {
			var out []models.Appointment
			for _, ap := range booked {
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
		},
	}
}
