package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/media/imaging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	maxPhotoBytes = 5 << 20
	photoMaxSide  = 512
)

// PhotoUploader grava a foto já convertida e devolve a URL pública.
type PhotoUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type DoctorHandler struct {
	db       *gorm.DB
	uploader PhotoUploader
	audit    *audit.Dispatcher
	logger   *zap.Logger
}

func NewDoctorHandler(
	db *gorm.DB,
	uploader PhotoUploader,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		db:       db,
		uploader: uploader,
		audit:    audit,
		logger:   logger,
	}
}

// ======================================================
// LIST / GET
// ======================================================

func (h *DoctorHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if spec := strings.ToLower(strings.TrimSpace(c.Query("specialization"))); spec != "" {
		q = q.Where("LOWER(specialization) = ?", spec)
	}
	if c.Query("available") == "true" {
		q = q.Where("is_available_for_appointments = ?", true)
	}

	var doctors []models.Doctor
	if err := q.Order("name ASC").Find(&doctors).Error; err != nil {
		writeError(c, h.logger, "failed_to_list_doctors", err)
		return
	}

	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.db.WithContext(c.Request.Context()).First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
			return
		}
		writeError(c, h.logger, "failed_to_get_doctor", err)
		return
	}

	httpresp.OK(c, doctor)
}

// ======================================================
// AVAILABILITY (chave geral do médico logado)
// ======================================================

type UpdateAvailabilityRequest struct {
	Available *bool `json:"is_available_for_appointments" binding:"required"`
}

func (h *DoctorHandler) UpdateAvailability(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.DoctorID == nil {
		httperr.Forbidden(c, "forbidden", "Only doctors can change availability.")
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Field is_available_for_appointments is required.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Doctor{}).
		Where("id = ?", *actor.DoctorID).
		Update("is_available_for_appointments", *req.Available)
	if res.Error != nil {
		writeError(c, h.logger, "failed_to_update_availability", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:    &actor.UserID,
		Action:    "doctor_availability_changed",
		Entity:    "doctor",
		EntityID:  actor.DoctorID,
		Metadata:  map[string]any{"available": *req.Available},
		RequestID: c.GetString(middleware.ContextRequestID),
	})

	c.JSON(http.StatusOK, gin.H{
		"doctor_id":                     *actor.DoctorID,
		"is_available_for_appointments": *req.Available,
	})
}

// ======================================================
// PHOTO
// ======================================================

func (h *DoctorHandler) UploadPhoto(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor.DoctorID == nil {
		httperr.Forbidden(c, "forbidden", "Only doctors have a profile photo.")
		return
	}
	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "photo_upload_disabled", "Photo storage is not configured.")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Form field photo is required.")
		return
	}
	if file.Size > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Photo must be at most 5MB.")
		return
	}

	f, err := file.Open()
	if err != nil {
		writeError(c, h.logger, "failed_to_read_photo", err)
		return
	}
	defer f.Close()

	body, err := imaging.ToWebP(f, photoMaxSide)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			httperr.BadRequest(c, "invalid_photo", "Photo must be a JPEG, PNG or WebP image.")
			return
		}
		writeError(c, h.logger, "failed_to_process_photo", err)
		return
	}

	key := fmt.Sprintf("doctors/%d/%s.webp", *actor.DoctorID, uuid.NewString())
	url, err := h.uploader.Upload(c.Request.Context(), key, body, "image/webp")
	if err != nil {
		writeError(c, h.logger, "failed_to_upload_photo", err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Doctor{}).
		Where("id = ?", *actor.DoctorID).
		Update("photo_url", url).Error; err != nil {
		writeError(c, h.logger, "failed_to_save_photo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
