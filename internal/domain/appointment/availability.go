package appointment

import "time"

type AvailabilityInput struct {
	ShopID     uint
	ServiceIDs []uint
	Date       time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
