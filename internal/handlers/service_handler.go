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

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required"`

	RequiredBayType    string `json:"required_bay_type"`
	RequiredSkillLevel string `json:"required_skill_level"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`

	RequiredBayType    *string `json:"required_bay_type,omitempty"`
	RequiredSkillLevel *string `json:"required_skill_level,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("shop_id = ?", shopID)

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.
		Order("id ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	bayType := strings.ToLower(strings.TrimSpace(req.RequiredBayType))
	if bayType != "" && !catalog.IsValidBayType(bayType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bay_type"})
		return
	}

	skill := strings.ToLower(strings.TrimSpace(req.RequiredSkillLevel))
	if skill != "" && !catalog.IsValidSkillLevel(skill) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_skill_level"})
		return
	}

	service := models.Service{
		ShopID:             shopID,
		Name:               req.Name,
		Description:        req.Description,
		DurationMin:        req.DurationMin,
		Price:              req.Price,
		Active:             true,
		RequiredBayType:    bayType,
		RequiredSkillLevel: skill,
	}

	if err := h.db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	id := c.Param("id")

	var service models.Service
	if err := h.db.
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&service).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.RequiredBayType != nil {
		bayType := strings.ToLower(strings.TrimSpace(*req.RequiredBayType))
		if bayType != "" && !catalog.IsValidBayType(bayType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bay_type"})
			return
		}
		service.RequiredBayType = bayType
	}
	if req.RequiredSkillLevel != nil {
		skill := strings.ToLower(strings.TrimSpace(*req.RequiredSkillLevel))
		if skill != "" && !catalog.IsValidSkillLevel(skill) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_skill_level"})
			return
		}
		service.RequiredSkillLevel = skill
	}

	if err := h.db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, service)
}
