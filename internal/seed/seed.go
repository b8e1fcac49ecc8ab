package seed

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	"github.com/redlinemotors/shop-ops/internal/models"
	"github.com/redlinemotors/shop-ops/internal/timezone"
)

// HasShops reports whether any shop exists. Seeding is skipped on a
// non-empty database.
func HasShops(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.Shop{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DemoShop creates a complete demo shop: owner login, service catalog,
// bays, technicians with schedules and bay links. Returns the shop id.
func DemoShop(db *gorm.DB) (uint, error) {

	shop := models.Shop{
		Name:     "Redline Motors",
		Slug:     "redline-motors",
		Phone:    "555-0134",
		Address:  "2200 Service Rd, Austin TX",
		Timezone: "America/Chicago",
	}
	if err := db.Create(&shop).Error; err != nil {
		return 0, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	owner := models.User{
		ShopID:       shop.ID,
		Name:         "Dana Whitfield",
		Email:        "owner@redlinemotors.example",
		PasswordHash: string(hashed),
		Role:         "owner",
	}
	if err := db.Create(&owner).Error; err != nil {
		return 0, err
	}

	services := []models.Service{
		{ShopID: shop.ID, Name: "Oil Change", DurationMin: 30, Price: 49.90, Active: true,
			RequiredBayType: catalog.BayExpressLane, RequiredSkillLevel: catalog.SkillJunior},
		{ShopID: shop.ID, Name: "Tire Rotation", DurationMin: 30, Price: 39.90, Active: true,
			RequiredBayType: catalog.BayQuickService, RequiredSkillLevel: catalog.SkillJunior},
		{ShopID: shop.ID, Name: "Brake Pad Replacement", DurationMin: 90, Price: 249.00, Active: true,
			RequiredBayType: catalog.BayGeneralService, RequiredSkillLevel: catalog.SkillIntermediate},
		{ShopID: shop.ID, Name: "Wheel Alignment", DurationMin: 60, Price: 129.00, Active: true,
			RequiredBayType: catalog.BayAlignment, RequiredSkillLevel: catalog.SkillIntermediate},
		{ShopID: shop.ID, Name: "Engine Diagnostics", DurationMin: 60, Price: 159.00, Active: true,
			RequiredBayType: catalog.BayDiagnostic, RequiredSkillLevel: catalog.SkillSenior},
		{ShopID: shop.ID, Name: "Transmission Rebuild", DurationMin: 480, Price: 2800.00, Active: true,
			RequiredBayType: catalog.BayHeavyRepair, RequiredSkillLevel: catalog.SkillMaster},
	}
	if err := db.Create(&services).Error; err != nil {
		return 0, err
	}

	bays := []models.Bay{
		{ShopID: shop.ID, Name: "Express 1", BayType: catalog.BayExpressLane, Active: true},
		{ShopID: shop.ID, Name: "Quick 1", BayType: catalog.BayQuickService, Active: true},
		{ShopID: shop.ID, Name: "General 1", BayType: catalog.BayGeneralService, Active: true},
		{ShopID: shop.ID, Name: "General 2", BayType: catalog.BayGeneralService, Active: true},
		{ShopID: shop.ID, Name: "Alignment 1", BayType: catalog.BayAlignment, Active: true},
		{ShopID: shop.ID, Name: "Diag 1", BayType: catalog.BayDiagnostic, Active: true},
		{ShopID: shop.ID, Name: "Heavy 1", BayType: catalog.BayHeavyRepair, Active: true},
	}
	if err := db.Create(&bays).Error; err != nil {
		return 0, err
	}

	techs := []models.Technician{
		{ShopID: shop.ID, Name: "Marcus Oliveira", SkillLevel: catalog.SkillJunior, Active: true},
		{ShopID: shop.ID, Name: "Priya Raman", SkillLevel: catalog.SkillIntermediate, Active: true},
		{ShopID: shop.ID, Name: "Jo Tanaka", SkillLevel: catalog.SkillSenior, Active: true},
		{ShopID: shop.ID, Name: "Elena Vasquez", SkillLevel: catalog.SkillMaster, Active: true},
	}
	if err := db.Create(&techs).Error; err != nil {
		return 0, err
	}

	links := []models.BayAssignment{
		{TechnicianID: techs[0].ID, BayID: bays[0].ID, IsPrimary: true},
		{TechnicianID: techs[0].ID, BayID: bays[1].ID},
		{TechnicianID: techs[1].ID, BayID: bays[2].ID, IsPrimary: true},
		{TechnicianID: techs[1].ID, BayID: bays[4].ID},
		{TechnicianID: techs[2].ID, BayID: bays[3].ID, IsPrimary: true},
		{TechnicianID: techs[2].ID, BayID: bays[5].ID},
		{TechnicianID: techs[3].ID, BayID: bays[6].ID, IsPrimary: true},
		{TechnicianID: techs[3].ID, BayID: bays[5].ID},
	}
	if err := db.Create(&links).Error; err != nil {
		return 0, err
	}

	// Mon-Fri for everyone, Saturday mornings for the junior crew.
	var schedules []models.TechnicianSchedule
	for _, tech := range techs {
		for weekday := 1; weekday <= 5; weekday++ {
			schedules = append(schedules, models.TechnicianSchedule{
				TechnicianID: tech.ID,
				Weekday:      weekday,
				StartTime:    "08:00",
				EndTime:      "17:00",
				Active:       true,
			})
		}
	}
	schedules = append(schedules,
		models.TechnicianSchedule{
			TechnicianID: techs[0].ID,
			Weekday:      6,
			StartTime:    "08:00",
			EndTime:      "12:00",
			Active:       true,
		},
		models.TechnicianSchedule{
			TechnicianID: techs[1].ID,
			Weekday:      6,
			StartTime:    "08:00",
			EndTime:      "12:00",
			Active:       true,
		},
	)
	if err := db.Create(&schedules).Error; err != nil {
		return 0, err
	}

	customer := models.Customer{
		ShopID:  shop.ID,
		Name:    "Sam Porter",
		Phone:   "555-0199",
		Vehicle: "2019 Subaru Outback",
	}
	if err := db.Create(&customer).Error; err != nil {
		return 0, err
	}

	// Bookings created without bay or technician, so the backfill run has
	// real assignment work to do.
	loc := timezone.Location(shop.Timezone)
	apps := pendingAppointments(shop.ID, customer.ID, services, loc, time.Now())
	if err := db.Create(&apps).Error; err != nil {
		return 0, err
	}

	return shop.ID, nil
}

// pendingAppointments builds scheduled appointments on the next Monday at
// least two days out, all missing bay and technician. The 09:30 and 10:00
// bookings overlap, so a backfill over them shows both the assigned and the
// bay_only outcome.
func pendingAppointments(
	shopID uint,
	customerID uint,
	services []models.Service,
	loc *time.Location,
	now time.Time,
) []models.Appointment {

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 2)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}

	at := func(startMin int, svc models.Service) models.Appointment {
		start := day.Add(time.Duration(startMin) * time.Minute)
		return models.Appointment{
			Code:        uuid.NewString(),
			ShopID:      shopID,
			CustomerID:  customerID,
			Services:    []models.Service{svc},
			StartTime:   start,
			EndTime:     start.Add(time.Duration(svc.DurationMin) * time.Minute),
			DurationMin: svc.DurationMin,
			Status:      "scheduled",
		}
	}

	return []models.Appointment{
		at(9*60, services[0]),    // 09:00 oil change, 30 min
		at(9*60+30, services[2]), // 09:30 brake pads, 90 min
		at(10*60, services[3]),   // 10:00 alignment, overlaps the brake job
		at(13*60, services[4]),   // 13:00 diagnostics
	}
}
