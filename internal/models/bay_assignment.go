package models

import "time"

// BayAssignment links a technician to a bay they regularly work.
// IsPrimary marks the technician's home bay for that bay type.
type BayAssignment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TechnicianID uint       `gorm:"index:idx_bay_assignment,unique" json:"technician_id"`
	Technician   Technician `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"technician"`

	BayID uint `gorm:"index:idx_bay_assignment,unique" json:"bay_id"`
	Bay   Bay  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"bay"`

	IsPrimary bool `gorm:"default:false" json:"is_primary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
