package models

import "time"

// TechnicianSchedule is one recurring weekly availability interval.
// A technician may have several rows for the same weekday; no row means
// not working that day. Times are shop-local "15:04" wall clock.
type TechnicianSchedule struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	TechnicianID uint `gorm:"index" json:"technician_id"`

	Weekday int `json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
