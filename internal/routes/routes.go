package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps são os singletons montados no main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Audit    *audit.Dispatcher
	Locker   lock.Locker
	Uploader handlers.PhotoUploader // nil = upload de foto desligado
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.CORSMiddleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	inbox := notification.NewStore(d.DB)
	tz := d.Config.Timezone

	// ======================================================
	// 🧠 USE CASES (APPOINTMENTS)
	// ======================================================
	appointmentUC := handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(appointmentRepo, d.Locker, d.Audit, inbox, d.Logger),
		Update:   ucAppointment.NewUpdateAppointment(appointmentRepo, d.Locker, d.Audit, inbox, d.Logger),
		Cancel:   ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, inbox, d.Logger, tz),
		Complete: ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, tz),
		Delete:   ucAppointment.NewDeleteAppointment(appointmentRepo, d.Audit),
		Get:      ucAppointment.NewGetAppointment(appointmentRepo),
		ByDate:   ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ByMonth:  ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Logger)
	meHandler := handlers.NewMeHandler(d.DB, inbox, tz, d.Logger)
	doctorHandler := handlers.NewDoctorHandler(d.DB, d.Uploader, d.Audit, d.Logger)
	patientHandler := handlers.NewPatientHandler(d.DB, d.Logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC, d.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Logger)

	doctorOnly := middleware.RequireRole(models.RoleDoctor)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/notifications", meHandler.ListNotifications)
			secured.PATCH("/me/notifications/:id/read", meHandler.MarkNotificationRead)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			secured.PATCH("/me/availability", doctorOnly, doctorHandler.UpdateAvailability)
			secured.PUT("/me/photo", doctorOnly, doctorHandler.UploadPhoto)

			// ------------------------------
			// DOCTORS / PATIENTS
			// ------------------------------
			secured.GET("/doctors", doctorHandler.List)
			secured.GET("/doctors/:id", doctorHandler.Get)
			secured.GET("/doctors/:id/appointments", doctorOnly, appointmentHandler.ListByDate)
			secured.GET("/doctors/:id/appointments/month", doctorOnly, appointmentHandler.ListByMonth)

			secured.GET("/patients/:id", doctorOnly, patientHandler.Get)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", doctorOnly, appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
		}
	}
}
