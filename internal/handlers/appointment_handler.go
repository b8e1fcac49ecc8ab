package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	engine "github.com/redlinemotors/shop-ops/internal/domain/assignment"
	"github.com/redlinemotors/shop-ops/internal/httperr"
	"github.com/redlinemotors/shop-ops/internal/httpresp"
	"github.com/redlinemotors/shop-ops/internal/middleware"
	ucAppointment "github.com/redlinemotors/shop-ops/internal/usecase/appointment"
	ucAssignment "github.com/redlinemotors/shop-ops/internal/usecase/assignment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC      *ucAppointment.CreateAppointment
	completeUC    *ucAppointment.CompleteAppointment
	cancelUC      *ucAppointment.CancelAppointment
	noShowUC      *ucAppointment.MarkNoShow
	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
	backfillUC    *ucAssignment.Backfill
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	noShowUC *ucAppointment.MarkNoShow,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
	backfillUC *ucAssignment.Backfill,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:      createUC,
		completeUC:    completeUC,
		cancelUC:      cancelUC,
		noShowUC:      noShowUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
		backfillUC:    backfillUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	CustomerEmail   string `json:"customer_email"`
	CustomerVehicle string `json:"customer_vehicle"`

	ServiceIDs []uint `json:"service_ids" binding:"required,min=1"`

	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
	Time  string `json:"time" binding:"required"` // HH:mm
	Notes string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	shopID := c.MustGet(middleware.ContextShopID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	out, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ShopID:          shopID,
		UserID:          &userID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerVehicle: req.CustomerVehicle,
		ServiceIDs:      req.ServiceIDs,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment": out.Appointment,
		"assignment":  out.Assignment,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	shopID := c.MustGet(middleware.ContextShopID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	items, err := h.listByDateUC.Execute(c.Request.Context(), shopID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	shopID := c.MustGet(middleware.ContextShopID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	items, err := h.listByMonthUC.Execute(c.Request.Context(), shopID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Failed to list appointments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.changeState(c, func(ctx *gin.Context, shopID, userID, apID uint) (any, error) {
		return h.cancelUC.Execute(ctx.Request.Context(), shopID, userID, apID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.changeState(c, func(ctx *gin.Context, shopID, userID, apID uint) (any, error) {
		return h.completeUC.Execute(ctx.Request.Context(), shopID, userID, apID)
	})
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.changeState(c, func(ctx *gin.Context, shopID, userID, apID uint) (any, error) {
		return h.noShowUC.Execute(ctx.Request.Context(), shopID, userID, apID)
	})
}

func (h *AppointmentHandler) changeState(
	c *gin.Context,
	run func(c *gin.Context, shopID, userID, apID uint) (any, error),
) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	shopID := c.MustGet(middleware.ContextShopID).(uint)

	apID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := run(c, shopID, userID, uint(apID))
	if err != nil {
		if httperr.IsBusiness(err, "appointment_not_found") {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
			return
		}
		if httperr.IsBusiness(err, "invalid_state") {
			httperr.BadRequest(c, "invalid_state", "Appointment cannot change to that state.")
			return
		}
		httperr.Internal(c, "failed_to_update_appointment", "Failed to update appointment.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// BACKFILL
// ======================================================

// Backfill re-runs resource assignment over scheduled appointments still
// missing a bay or technician.
func (h *AppointmentHandler) Backfill(c *gin.Context) {
	shopID := c.MustGet(middleware.ContextShopID).(uint)

	report, err := h.backfillUC.Execute(c.Request.Context(), shopID)
	if err != nil {
		httperr.Internal(c, "backfill_failed", "Assignment backfill failed.")
		return
	}

	c.JSON(http.StatusOK, report)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func mapCreateErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "Requested time is too soon.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	case httperr.IsBusiness(err, "service_inactive"):
		httperr.BadRequest(c, "service_inactive", "Service is inactive.")
	case httperr.IsBusiness(err, "invalid_duration"):
		httperr.BadRequest(c, "invalid_duration", "Total duration must be positive.")
	case errors.Is(err, engine.ErrUnknownService):
		httperr.BadRequest(c, "unknown_service", "Unknown service in strict mode.")
	case errors.Is(err, engine.ErrInvalidTag):
		httperr.BadRequest(c, "invalid_service_tag", "Service has an invalid capability tag.")
	case httperr.IsAnyBusiness(err):
		httperr.BadRequest(c, err.Error(), "Could not create appointment.")
	default:
		httperr.Internal(c, "failed_to_create_appointment", "Failed to create appointment.")
	}
}
