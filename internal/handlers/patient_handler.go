package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PatientHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPatientHandler(db *gorm.DB, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{db: db, logger: logger}
}

// Get: ficha do paciente (rota restrita a médicos).
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patient models.Patient
	if err := h.db.WithContext(c.Request.Context()).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "Patient not found.")
			return
		}
		writeError(c, h.logger, "failed_to_get_patient", err)
		return
	}

	httpresp.OK(c, patient)
}
