package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	Address      *string `json:"address,omitempty"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// UpdateMe edits the caller's profile. Business fields are only accepted
// from professionals; the slug is fixed at registration.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeValidation, "name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.BusinessName != nil || req.Address != nil {
		if !user.IsPro() {
			httperr.Forbidden(c, httperr.CodeUnauthorized, "business fields belong to professionals")
			return
		}
		if req.BusinessName != nil {
			user.BusinessName = strings.TrimSpace(*req.BusinessName)
		}
		if req.Address != nil {
			user.Address = strings.TrimSpace(*req.Address)
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "could not save profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

func (h *MeHandler) loadUser(c *gin.Context) (*models.User, bool) {
	p := principal(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", p.UserID).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "user not found")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "could not load user")
		return nil, false
	}
	return &user, true
}
