package models

import "time"

// Service is a catalog entry. RequiredBayType and RequiredSkillLevel drive
// resource assignment; empty values fall back to the lowest tier.
type Service struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ShopID uint `json:"shop_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	RequiredBayType    string `gorm:"size:30" json:"required_bay_type"`
	RequiredSkillLevel string `gorm:"size:20" json:"required_skill_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
