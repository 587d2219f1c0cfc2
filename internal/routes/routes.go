package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/pro-scheduler/internal/config"
	"github.com/BruksfildServices01/pro-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/pro-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/pro-scheduler/internal/lock"
	"github.com/BruksfildServices01/pro-scheduler/internal/metrics"
	"github.com/BruksfildServices01/pro-scheduler/internal/middleware"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/pro-scheduler/internal/usecase/appointment"
)

// Deps are the long-lived collaborators built by the serve command.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      zerolog.Logger
	Locker   lock.Locker
	Notifier ucAppointment.Notifier
	Auditor  ucAppointment.Auditor
	Metrics  *metrics.Metrics
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	loc := timezone.Location(d.Config.Timezone)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	admitUC := ucAppointment.NewAdmitBooking(
		appointmentRepo,
		d.Locker,
		d.Notifier,
		d.Auditor,
		d.Metrics,
		d.Log,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Config.SlotStepMinutes)
	createPublicUC := ucAppointment.NewCreatePublicAppointment(admitUC, loc)
	createManualUC := ucAppointment.NewCreateManualAppointment(admitUC, loc)
	setStatusUC := ucAppointment.NewSetAppointmentStatus(appointmentRepo, d.Auditor, d.Log, loc)
	deleteUC := ucAppointment.NewDeleteAppointment(appointmentRepo, d.Auditor)
	countPendingUC := ucAppointment.NewCountPendingAppointments(appointmentRepo)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, loc)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)
	meHandler := handlers.NewMeHandler(d.DB)

	serviceHandler := handlers.NewServiceHandler(d.DB)
	clientHandler := handlers.NewClientHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createManualUC,
		setStatusUC,
		deleteUC,
		countPendingUC,
		listByDateUC,
		listByMonthUC,
		loc,
		d.Log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, loc)

	publicHandler := handlers.NewPublicHandler(d.DB, availabilityUC, createPublicUC, loc, d.Log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", middleware.OptionalAuth(d.Config), publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ANY SIGNED-IN USER
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
		}

		// ------------------------------
		// PROFESSIONAL ONLY
		// ------------------------------
		pro := api.Group("/me")
		pro.Use(middleware.AuthMiddleware(d.Config), middleware.RequireRole(models.RolePro))
		{
			pro.GET("/clients", clientHandler.List)
			pro.POST("/clients", clientHandler.Create)
			pro.DELETE("/clients/:id", clientHandler.Delete)

			pro.GET("/services", serviceHandler.List)
			pro.POST("/services", serviceHandler.Create)
			pro.PATCH("/services/:id", serviceHandler.Update)

			pro.GET("/working-hours", workingHoursHandler.Get)
			pro.PUT("/working-hours", workingHoursHandler.Update)

			pro.POST("/appointments", appointmentHandler.Create)
			pro.GET("/appointments", appointmentHandler.ListByDate)
			pro.GET("/appointments/month", appointmentHandler.ListByMonth)
			pro.GET("/appointments/pending-count", appointmentHandler.PendingCount)
			pro.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)
			pro.DELETE("/appointments/:id", appointmentHandler.Delete)

			pro.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
