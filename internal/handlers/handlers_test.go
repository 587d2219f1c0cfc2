package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/pro-scheduler/internal/config"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/middleware"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = zerolog.New(io.Discard)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	r := gin.New()
	r.GET("/business", func(c *gin.Context) {
		respondError(c, quiet, httperr.ErrBusinessMsg(httperr.CodeSlotConflict, "slot already taken"), "fallback")
	})
	r.GET("/infra", func(c *gin.Context) {
		respondError(c, quiet, errors.New("connection refused"), "failed_to_create_appointment")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/business", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, httperr.CodeSlotConflict, body["error_code"])
	assert.Equal(t, "slot already taken", body["message"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/infra", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decode(t, w)
	assert.Equal(t, "failed_to_create_appointment", body["error_code"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestAppointmentHandler_QueryValidation(t *testing.T) {
	h := NewAppointmentHandler(nil, nil, nil, nil, nil, nil, time.UTC, quiet)
	r := gin.New()
	r.GET("/appointments", h.ListByDate)
	r.GET("/appointments/month", h.ListByMonth)

	for _, path := range []string{
		"/appointments",
		"/appointments?date=02/03/2026",
		"/appointments/month?year=2026",
		"/appointments/month?year=abc&month=3",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, httperr.CodeValidation, decode(t, w)["error_code"], path)
	}
}

func TestAppointmentHandler_SetStatusRequiresBody(t *testing.T) {
	h := NewAppointmentHandler(nil, nil, nil, nil, nil, nil, time.UTC, quiet)
	r := gin.New()
	r.PATCH("/appointments/:id/status", h.SetStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/appointments/x/status", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_CreateRejectsOversizedFields(t *testing.T) {
	h := NewClientHandler(nil)
	r := gin.New()
	r.POST("/clients", h.Create)

	for _, body := range []string{
		`{"name":"` + strings.Repeat("a", 101) + `"}`,
		`{"name":"Carla","phone":"` + strings.Repeat("9", 21) + `"}`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, httperr.CodeValidation, decode(t, w)["error_code"])
	}
}

func TestPublicHandler_MalformedBodyIsBookingResult(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, time.UTC, quiet)
	r := gin.New()
	r.POST("/public/:slug/appointments", h.CreateAppointment)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/public/ana/appointments", strings.NewReader(`{"service_id":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, httperr.CodeValidation, body["error_code"])
}

func TestPublicHandler_AvailabilityRequiresParams(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, time.UTC, quiet)
	r := gin.New()
	r.GET("/public/:slug/availability", h.Availability)

	for _, path := range []string{
		"/public/ana/availability?date=2026-03-02",
		"/public/ana/availability?service_id=cut",
		"/public/ana/availability?service_id=cut&date=tomorrow",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, validateInterval(WorkingInterval{Weekday: 1, StartTime: "09:00", EndTime: "12:00"}))
	assert.NoError(t, validateInterval(WorkingInterval{Weekday: 1, StartTime: "18:00", EndTime: "24:00"}))

	assert.Error(t, validateInterval(WorkingInterval{Weekday: 1, StartTime: "12:00", EndTime: "09:00"}))
	assert.Error(t, validateInterval(WorkingInterval{Weekday: 1, StartTime: "09:00", EndTime: "09:00"}))
	assert.Error(t, validateInterval(WorkingInterval{Weekday: 1, StartTime: "9am", EndTime: "12:00"}))
}

func TestGeneratedTokenPassesAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	h := NewAuthHandler(nil, cfg)

	pro := models.User{Role: models.RolePro}
	pro.ID = "8f7a3c2e-0000-4000-8000-000000000001"
	token, err := h.generateToken(&pro)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RolePro), func(c *gin.Context) {
		c.String(http.StatusOK, principal(c).UserID)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pro.ID, w.Body.String())
}

func TestUserView(t *testing.T) {
	slug := "ana-studio"
	pro := models.User{Name: "Ana", Role: models.RolePro, BusinessName: "Ana Studio", Slug: &slug}
	client := models.User{Name: "Carla", Role: models.RoleClient}

	assert.Equal(t, "Ana Studio", userView(&pro)["business_name"])
	assert.NotContains(t, userView(&client), "business_name")
	assert.NotContains(t, userView(&client), "password_hash")
}

func TestSlugPattern(t *testing.T) {
	assert.True(t, slugPattern.MatchString("ana-studio"))
	assert.True(t, slugPattern.MatchString("studio42"))
	assert.False(t, slugPattern.MatchString("Ana"))
	assert.False(t, slugPattern.MatchString("-ana"))
	assert.False(t, slugPattern.MatchString("ana studio"))
}
