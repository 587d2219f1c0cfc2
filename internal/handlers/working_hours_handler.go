package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

// WorkingInterval is one open interval. Send several with the same weekday
// for split shifts.
type WorkingInterval struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    *bool  `json:"active,omitempty"`
}

type WorkingHoursUpdateRequest struct {
	Intervals []WorkingInterval `json:"intervals" binding:"dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	professionalID := principal(c).UserID

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC, start_time ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "could not load working hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole weekly schedule.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	professionalID := principal(c).UserID

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Intervals))
	for i, iv := range req.Intervals {
		if err := validateInterval(iv); err != nil {
			httperr.BadRequest(c, httperr.CodeValidation, fmt.Sprintf("interval %d: %v", i, err))
			return
		}
		active := true
		if iv.Active != nil {
			active = *iv.Active
		}
		toCreate = append(toCreate, models.WorkingHours{
			ProfessionalID: professionalID,
			Weekday:        iv.Weekday,
			StartTime:      iv.StartTime,
			EndTime:        iv.EndTime,
			Active:         active,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", professionalID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "could not save working hours")
		return
	}

	c.JSON(http.StatusOK, toCreate)
}

func validateInterval(iv WorkingInterval) error {
	start, err := domain.ParseClock(iv.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time %q", iv.StartTime)
	}
	end, err := domain.ParseClock(iv.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time %q", iv.EndTime)
	}
	if start >= end {
		return fmt.Errorf("start_time must be before end_time")
	}
	return nil
}
