package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	"github.com/redlinemotors/shop-ops/internal/httpresp"
	"github.com/redlinemotors/shop-ops/internal/middleware"
	"github.com/redlinemotors/shop-ops/internal/models"
)

type BayHandler struct {
	db *gorm.DB
}

func NewBayHandler(db *gorm.DB) *BayHandler {
	return &BayHandler{db: db}
}

// --------- Requests ---------

type CreateBayRequest struct {
	Name    string `json:"name" binding:"required"`
	BayType string `json:"bay_type" binding:"required"`
}

type UpdateBayRequest struct {
	Name    *string `json:"name,omitempty"`
	BayType *string `json:"bay_type,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *BayHandler) List(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	q := h.db.Where("shop_id = ?", shopID)

	bayType := strings.ToLower(strings.TrimSpace(c.Query("bay_type")))
	if bayType != "" {
		q = q.Where("bay_type = ?", bayType)
	}

	var bays []models.Bay
	if err := q.
		Order("id ASC").
		Find(&bays).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_bays"})
		return
	}

	httpresp.List(c, bays)
}

func (h *BayHandler) Create(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	var req CreateBayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	bayType := strings.ToLower(strings.TrimSpace(req.BayType))
	if !catalog.IsValidBayType(bayType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bay_type"})
		return
	}

	bay := models.Bay{
		ShopID:  shopID,
		Name:    req.Name,
		BayType: bayType,
		Active:  true,
	}

	if err := h.db.Create(&bay).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_bay"})
		return
	}

	c.JSON(http.StatusCreated, bay)
}

func (h *BayHandler) Update(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	id := c.Param("id")

	var bay models.Bay
	if err := h.db.
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&bay).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "bay_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_bay"})
		return
	}

	var req UpdateBayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		bay.Name = *req.Name
	}
	if req.BayType != nil {
		bayType := strings.ToLower(strings.TrimSpace(*req.BayType))
		if !catalog.IsValidBayType(bayType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bay_type"})
			return
		}
		bay.BayType = bayType
	}
	if req.Active != nil {
		bay.Active = *req.Active
	}

	if err := h.db.Save(&bay).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_bay"})
		return
	}

	c.JSON(http.StatusOK, bay)
}
