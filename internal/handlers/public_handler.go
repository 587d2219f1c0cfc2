package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/middleware"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/pro-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the booking page API addressed by the
// professional's slug. No authentication is required; a CLIENT token, when
// sent, links the booking to that account.
type PublicHandler struct {
	db           *gorm.DB
	availability *ucAppointment.GetAvailability
	book         *ucAppointment.CreatePublicAppointment
	loc          *time.Location
	log          zerolog.Logger
}

func NewPublicHandler(
	db *gorm.DB,
	availability *ucAppointment.GetAvailability,
	book *ucAppointment.CreatePublicAppointment,
	loc *time.Location,
	log zerolog.Logger,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		book:         book,
		loc:          loc,
		log:          log,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	pro, ok := h.professionalBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("professional_id = ? AND active = ?", pro.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "could not list services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional": gin.H{
			"business_name": pro.BusinessName,
			"slug":          pro.Slug,
			"address":       pro.Address,
			"phone":         pro.Phone,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	serviceID := c.Query("service_id")
	if dateStr == "" || serviceID == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "date and service_id are required")
		return
	}

	date, err := timezone.ParseDate(h.loc, dateStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "date must be YYYY-MM-DD")
		return
	}

	pro, ok := h.professionalBySlug(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProfessionalID: pro.ID,
		ServiceID:      serviceID,
		Date:           date,
	})
	if err != nil {
		respondError(c, h.log, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

// CreateAppointment always answers with a booking result body. Rejections
// carry success=false and the error code, with the status mapped from it.
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ucAppointment.BookingResult{
			Error: "invalid request body",
			Code:  httperr.CodeValidation,
		})
		return
	}

	pro, ok := h.professionalBySlug(c)
	if !ok {
		return
	}

	var customerID *string
	if p, ok := middleware.PrincipalFrom(c); ok && p.Role == models.RoleClient {
		id := p.UserID
		customerID = &id
	}

	res, err := h.book.Execute(c.Request.Context(), ucAppointment.PublicBookingInput{
		ProfessionalID: pro.ID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Name:           req.ClientName,
		Email:          req.ClientEmail,
		Phone:          req.ClientPhone,
		Notes:          req.Notes,
		CustomerID:     customerID,
	})
	if err != nil {
		respondError(c, h.log, err, "failed_to_create_appointment")
		return
	}

	if !res.Success {
		c.JSON(httperr.StatusFor(res.Code), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *PublicHandler) professionalBySlug(c *gin.Context) (*models.User, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var pro models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND role = ?", slug, models.RolePro).
		First(&pro).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "professional_not_found", "professional not found")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_professional", "could not load professional")
		return nil, false
	}
	return &pro, true
}
