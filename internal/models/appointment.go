package models

import "time"

type Appointment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:36;uniqueIndex" json:"code"`

	ShopID uint `json:"shop_id"`
	Shop   Shop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"shop"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	// BayID and TechnicianID stay null when assignment could not complete;
	// backfill picks those appointments up later.
	BayID *uint `json:"bay_id"`
	Bay   *Bay  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"bay,omitempty"`

	TechnicianID *uint       `json:"technician_id"`
	Technician   *Technician `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"technician,omitempty"`

	Services []Service `gorm:"many2many:appointment_services;" json:"services"`

	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	NoShowAt    *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
