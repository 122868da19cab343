package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

type businessResponse struct {
	status  int
	message string
}

// Códigos de negócio conhecidos → status HTTP e mensagem ao cliente.
var businessResponses = map[string]businessResponse{
	"slot_conflict":          {http.StatusBadRequest, "Requested time conflicts with an existing appointment."},
	"doctor_unavailable":     {http.StatusBadRequest, "Doctor is not available for appointments."},
	"invalid_time_range":     {http.StatusBadRequest, "Start time must be before end time."},
	"invalid_state":          {http.StatusBadRequest, "Appointment cannot be changed in its current state."},
	"invalid_date":           {http.StatusBadRequest, "Invalid date."},
	"invalid_month":          {http.StatusBadRequest, "Invalid year or month."},
	"appointment_not_found":  {http.StatusNotFound, "Appointment not found."},
	"doctor_not_found":       {http.StatusNotFound, "Doctor not found."},
	"patient_not_found":      {http.StatusNotFound, "Patient not found."},
	"notification_not_found": {http.StatusNotFound, "Notification not found."},
	"forbidden":              {http.StatusForbidden, "You cannot access this appointment."},
	"booking_in_progress":    {http.StatusConflict, "Another booking for this doctor and day is in progress. Try again."},
}

// writeError responde erros de negócio com o código próprio e qualquer
// outro como 500, sem vazar detalhes de infraestrutura.
func writeError(c *gin.Context, logger *zap.Logger, fallbackCode string, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		if resp, known := businessResponses[code]; known {
			httperr.Write(c, resp.status, code, resp.message)
			return
		}
		httperr.BadRequest(c, code, code)
		return
	}

	logger.Error(fallbackCode,
		zap.String("request_id", c.GetString(middleware.ContextRequestID)),
		zap.Error(err),
	)
	httperr.Internal(c, fallbackCode, "Unexpected error.")
}
