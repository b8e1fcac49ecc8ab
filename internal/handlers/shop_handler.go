package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/httperr"
	"github.com/redlinemotors/shop-ops/internal/middleware"
	"github.com/redlinemotors/shop-ops/internal/models"
)

type ShopHandler struct {
	db *gorm.DB
}

func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

type UpdateShopConfigRequest struct {
	Name              *string `json:"name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Address           *string `json:"address,omitempty"`
	Timezone          *string `json:"timezone,omitempty"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes,omitempty"`
}

func (h *ShopHandler) GetMeShop(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	var shop models.Shop
	if err := h.db.First(&shop, shopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_shop", "Failed to load shop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *ShopHandler) UpdateMeShop(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	var shop models.Shop
	if err := h.db.First(&shop, shopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "shop_not_found", "Shop not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_shop", "Failed to load shop.")
		return
	}

	var req UpdateShopConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		shop.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Minimum advance must be zero or positive minutes.")
			return
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_shop", "Failed to save shop settings.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
