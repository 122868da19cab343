package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	appointmentuc "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentUseCases struct {
	Create   *appointmentuc.CreateAppointment
	Update   *appointmentuc.UpdateAppointment
	Cancel   *appointmentuc.CancelAppointment
	Complete *appointmentuc.CompleteAppointment
	Delete   *appointmentuc.DeleteAppointment
	Get      *appointmentuc.GetAppointment
	ByDate   *appointmentuc.ListAppointmentsByDate
	ByMonth  *appointmentuc.ListAppointmentsByMonth
}

type AppointmentHandler struct {
	uc     AppointmentUseCases
	logger *zap.Logger
}

func NewAppointmentHandler(uc AppointmentUseCases, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, logger: logger}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctor_id"`
	PatientID uint   `json:"patient_id"`
	Date      string `json:"date" binding:"required,isodate"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
	Reason    string `json:"reason" binding:"max=255"`
}

// Campos omitidos mantêm o valor gravado.
type UpdateAppointmentRequest struct {
	Date      *string `json:"date" binding:"omitempty,isodate"`
	StartTime *string `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string `json:"end_time" binding:"omitempty,clock"`
	Reason    *string `json:"reason" binding:"omitempty,max=255"`
}

// ======================================================
// HELPERS
// ======================================================

func requestMeta(c *gin.Context) appointmentuc.RequestMeta {
	userID := c.GetUint(middleware.ContextUserID)
	return appointmentuc.RequestMeta{
		ActorUserID: &userID,
		RequestID:   c.GetString(middleware.ContextRequestID),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment data.")
		return
	}

	// o próprio perfil do ator prevalece sobre o corpo
	actor := middleware.ActorFrom(c)
	if actor.DoctorID != nil {
		req.DoctorID = *actor.DoctorID
	}
	if actor.PatientID != nil {
		req.PatientID = *actor.PatientID
	}
	if req.DoctorID == 0 || req.PatientID == 0 {
		httperr.BadRequest(c, "invalid_request", "doctor_id and patient_id are required.")
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), appointmentuc.CreateAppointmentInput{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Meta:      requestMeta(c),
	})
	if err != nil {
		writeError(c, h.logger, "failed_to_create_appointment", err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Get.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		writeError(c, h.logger, "failed_to_get_appointment", err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE (remarcação / motivo)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment data.")
		return
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), appointmentuc.UpdateAppointmentInput{
		AppointmentID: id,
		Actor:         middleware.ActorFrom(c),
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Reason:        req.Reason,
		Meta:          requestMeta(c),
	})
	if err != nil {
		writeError(c, h.logger, "failed_to_update_appointment", err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL / COMPLETE / DELETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, "failed_to_cancel_appointment", h.uc.Cancel.Execute)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, "failed_to_complete_appointment", h.uc.Complete.Execute)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	failureCode string,
	run func(ctx context.Context, actor domain.Actor, id uint, meta appointmentuc.RequestMeta) (*models.Appointment, error),
) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ap, err := run(c.Request.Context(), middleware.ActorFrom(c), id, requestMeta(c))
	if err != nil {
		writeError(c, h.logger, failureCode, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), middleware.ActorFrom(c), id, requestMeta(c)); err != nil {
		writeError(c, h.logger, "failed_to_delete_appointment", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// LIST (agenda do médico)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date is required.")
		return
	}

	aps, err := h.uc.ByDate.Execute(c.Request.Context(), doctorID, dateStr)
	if err != nil {
		writeError(c, h.logger, "failed_to_list_appointments", err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", "Query parameters year and month are required.")
		return
	}

	aps, err := h.uc.ByMonth.Execute(c.Request.Context(), doctorID, year, month)
	if err != nil {
		writeError(c, h.logger, "failed_to_list_appointments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": aps,
	})
}
