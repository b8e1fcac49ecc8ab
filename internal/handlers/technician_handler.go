package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/redlinemotors/shop-ops/internal/catalog"
	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/httpresp"
	"github.com/redlinemotors/shop-ops/internal/middleware"
	"github.com/redlinemotors/shop-ops/internal/models"
)

type TechnicianHandler struct {
	db *gorm.DB
}

func NewTechnicianHandler(db *gorm.DB) *TechnicianHandler {
	return &TechnicianHandler{db: db}
}

// --------- Requests ---------

type CreateTechnicianRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	SkillLevel string `json:"skill_level"`
}

type UpdateTechnicianRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	SkillLevel *string `json:"skill_level,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

type ScheduleIntervalConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    bool   `json:"active"`
}

type ScheduleUpdateRequest struct {
	Intervals []ScheduleIntervalConfig `json:"intervals" binding:"required"`
}

type BayLinkConfig struct {
	BayID     uint `json:"bay_id" binding:"required"`
	IsPrimary bool `json:"is_primary"`
}

type BayLinksUpdateRequest struct {
	Bays []BayLinkConfig `json:"bays" binding:"required"`
}

// --------- Handlers ---------

func (h *TechnicianHandler) List(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	q := h.db.Where("shop_id = ?", shopID)

	activeStr := strings.TrimSpace(c.Query("active"))
	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var techs []models.Technician
	if err := q.
		Order("id ASC").
		Find(&techs).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_technicians"})
		return
	}

	httpresp.List(c, techs)
}

func (h *TechnicianHandler) Create(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	var req CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	skill := strings.ToLower(strings.TrimSpace(req.SkillLevel))
	if skill == "" {
		skill = catalog.DefaultSkillLevel
	}
	if !catalog.IsValidSkillLevel(skill) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_skill_level"})
		return
	}

	tech := models.Technician{
		ShopID:     shopID,
		Name:       req.Name,
		Phone:      req.Phone,
		SkillLevel: skill,
		Active:     true,
	}

	if err := h.db.Create(&tech).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_technician"})
		return
	}

	c.JSON(http.StatusCreated, tech)
}

func (h *TechnicianHandler) Update(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	id := c.Param("id")

	var tech models.Technician
	if err := h.db.
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&tech).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "technician_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_technician"})
		return
	}

	var req UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		tech.Name = *req.Name
	}
	if req.Phone != nil {
		tech.Phone = *req.Phone
	}
	if req.SkillLevel != nil {
		skill := strings.ToLower(strings.TrimSpace(*req.SkillLevel))
		if !catalog.IsValidSkillLevel(skill) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_skill_level"})
			return
		}
		tech.SkillLevel = skill
	}
	if req.Active != nil {
		tech.Active = *req.Active
	}

	if err := h.db.Save(&tech).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_technician"})
		return
	}

	c.JSON(http.StatusOK, tech)
}

// --------- Weekly schedule ---------

func (h *TechnicianHandler) GetSchedule(c *gin.Context) {
	techID, ok := h.ownedTechnicianID(c)
	if !ok {
		return
	}

	var rows []models.TechnicianSchedule
	if err := h.db.
		Where("technician_id = ?", techID).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_schedule"})
		return
	}

	httpresp.List(c, rows)
}

// UpdateSchedule replaces the technician's full weekly schedule. A weekday
// with no interval means the technician does not work that day.
func (h *TechnicianHandler) UpdateSchedule(c *gin.Context) {
	techID, ok := h.ownedTechnicianID(c)
	if !ok {
		return
	}

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, iv := range req.Intervals {
		start, err := engine.ParseClock(iv.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_start_time"})
			return
		}
		end, err := engine.ParseClock(iv.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_end_time"})
			return
		}
		if end <= start {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_before_start"})
			return
		}
	}

	if err := h.db.
		Where("technician_id = ?", techID).
		Delete(&models.TechnicianSchedule{}).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_schedule"})
		return
	}

	var toCreate []models.TechnicianSchedule
	for _, iv := range req.Intervals {
		toCreate = append(toCreate, models.TechnicianSchedule{
			TechnicianID: techID,
			Weekday:      iv.Weekday,
			StartTime:    iv.StartTime,
			EndTime:      iv.EndTime,
			Active:       iv.Active,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_schedule"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------- Bay links ---------

func (h *TechnicianHandler) GetBays(c *gin.Context) {
	techID, ok := h.ownedTechnicianID(c)
	if !ok {
		return
	}

	var links []models.BayAssignment
	if err := h.db.
		Preload("Bay").
		Where("technician_id = ?", techID).
		Order("id ASC").
		Find(&links).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_bay_links"})
		return
	}

	httpresp.List(c, links)
}

// UpdateBays replaces the set of bays the technician works. Every bay must
// belong to the same shop.
func (h *TechnicianHandler) UpdateBays(c *gin.Context) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	techID, ok := h.ownedTechnicianID(c)
	if !ok {
		return
	}

	var req BayLinksUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	bayIDs := make([]uint, 0, len(req.Bays))
	for _, l := range req.Bays {
		bayIDs = append(bayIDs, l.BayID)
	}

	if len(bayIDs) > 0 {
		var count int64
		h.db.Model(&models.Bay{}).
			Where("shop_id = ? AND id IN ?", shopID, bayIDs).
			Count(&count)
		if count != int64(len(bayIDs)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bay_not_found"})
			return
		}
	}

	if err := h.db.
		Where("technician_id = ?", techID).
		Delete(&models.BayAssignment{}).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_bay_links"})
		return
	}

	var toCreate []models.BayAssignment
	for _, l := range req.Bays {
		toCreate = append(toCreate, models.BayAssignment{
			TechnicianID: techID,
			BayID:        l.BayID,
			IsPrimary:    l.IsPrimary,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_bay_links"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------- Helpers ---------

func (h *TechnicianHandler) ownedTechnicianID(c *gin.Context) (uint, bool) {
	shopIDVal, _ := c.Get(middleware.ContextShopID)
	shopID := shopIDVal.(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_technician_id"})
		return 0, false
	}

	var tech models.Technician
	if err := h.db.
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&tech).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "technician_not_found"})
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_technician"})
		return 0, false
	}

	return tech.ID, true
}
