package models

import "time"

type Technician struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ShopID uint `json:"shop_id"`

	Name       string `gorm:"size:100;not null" json:"name"`
	Phone      string `gorm:"size:20" json:"phone"`
	SkillLevel string `gorm:"size:20;default:'junior'" json:"skill_level"`
	Active     bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
