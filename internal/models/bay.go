package models

import "time"

type Bay struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ShopID uint `json:"shop_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	BayType string `gorm:"size:30;not null" json:"bay_type"`
	Active  bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
