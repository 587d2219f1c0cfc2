package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/pro-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/validators"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"max=100"`
	Phone string `json:"phone" binding:"max=20"`
}

type clientWithCount struct {
	models.Client
	AppointmentCount int64 `json:"appointment_count"`
}

// ======================================================
// LIST CLIENTS (PRO)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	professionalID := principal(c).UserID

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Select("clients.*, (SELECT COUNT(*) FROM appointments a WHERE a.client_id = clients.id) AS appointment_count").
		Where("clients.professional_id = ?", professionalID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(clients.name) LIKE ? OR clients.phone LIKE ? OR LOWER(clients.email) LIKE ?",
			like, like, like,
		)
	}

	var clients []clientWithCount
	if err := q.
		Order("clients.name ASC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "could not list clients")
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// CREATE CLIENT (PRO)
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	professionalID := principal(c).UserID

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return
	}

	client := models.Client{
		ProfessionalID: professionalID,
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
	}
	if client.Name == "" {
		httperr.BadRequest(c, httperr.CodeValidation, "name is required")
		return
	}

	if email := validators.NormalizeEmail(req.Email); email != "" {
		if !validators.IsEmailSyntaxValid(email) {
			httperr.BadRequest(c, httperr.CodeValidation, "invalid email")
			return
		}
		client.Email = &email
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		if infraRepo.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "client_already_exists", "a client with this email already exists")
			return
		}
		httperr.Internal(c, "failed_to_create_client", "could not create client")
		return
	}

	httpresp.Created(c, client)
}

// ======================================================
// DELETE CLIENT (PRO)
// ======================================================

// Delete removes the client record. Past appointments keep their snapshot
// and lose the link.
func (h *ClientHandler) Delete(c *gin.Context) {
	professionalID := principal(c).UserID

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND professional_id = ?", c.Param("id"), professionalID).
		Delete(&models.Client{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) || infraRepo.IsInvalidInput(res.Error) {
			httperr.NotFound(c, "client_not_found", "client not found")
			return
		}
		httperr.Internal(c, "failed_to_delete_client", "could not delete client")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "client_not_found", "client not found")
		return
	}

	httpresp.NoContent(c)
}
