package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/pro-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateManualAppointment
	setStatus    *ucAppointment.SetAppointmentStatus
	remove       *ucAppointment.DeleteAppointment
	countPending *ucAppointment.CountPendingAppointments
	listByDate   *ucAppointment.ListAppointmentsByDate
	listByMonth  *ucAppointment.ListAppointmentsByMonth
	loc          *time.Location
	log          zerolog.Logger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateManualAppointment,
	setStatus *ucAppointment.SetAppointmentStatus,
	remove *ucAppointment.DeleteAppointment,
	countPending *ucAppointment.CountPendingAppointments,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	loc *time.Location,
	log zerolog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		setStatus:    setStatus,
		remove:       remove,
		countPending: countPending,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		loc:          loc,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID   string `json:"service_id" binding:"required"`
	StartAt     string `json:"start_at" binding:"required"` // YYYY-MM-DDTHH:MM
	ClientName  string `json:"client_name" binding:"required,max=100"`
	ClientEmail string `json:"client_email" binding:"max=100"`
	ClientPhone string `json:"client_phone" binding:"max=20"`
	Notes       string `json:"notes" binding:"max=255"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), principal(c), ucAppointment.ManualBookingInput{
		ServiceID:   req.ServiceID,
		StartAt:     req.StartAt,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "date is required")
		return
	}

	date, err := timezone.ParseDate(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "date must be YYYY-MM-DD")
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), principal(c), date)
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "year is required")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "month is required")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), principal(c), year, month)
	if err != nil {
		respondError(c, h.log, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), principal(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.remove.Execute(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, h.log, err, "failed_to_delete_appointment")
		return
	}

	httpresp.NoContent(c)
}

func (h *AppointmentHandler) PendingCount(c *gin.Context) {
	n, err := h.countPending.Execute(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, h.log, err, "failed_to_count_appointments")
		return
	}

	httpresp.OK(c, gin.H{"pending": n})
}
