package handlers

import (
	"time"

	"github.com/redlinemotors/shop-ops/internal/models"
	"github.com/redlinemotors/shop-ops/internal/timezone"
)

// resolves the shop's official timezone
func locationFromShop(shop *models.Shop) *time.Location {
	if shop != nil {
		return timezone.Location(shop.Timezone)
	}
	return timezone.Location("")
}

func parseDateInShop(shop *models.Shop, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromShop(shop),
	)
}
