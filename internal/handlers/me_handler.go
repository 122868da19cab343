package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type MeHandler struct {
	db       *gorm.DB
	inbox    *notification.Store
	timezone string
	logger   *zap.Logger
}

func NewMeHandler(db *gorm.DB, inbox *notification.Store, tz string, logger *zap.Logger) *MeHandler {
	return &MeHandler{db: db, inbox: inbox, timezone: tz, logger: logger}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Doctor").
		Preload("Patient").
		First(&user, userID).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "User not found.")
		return
	}

	resp := gin.H{"user": userPayload(&user)}
	if user.Doctor != nil {
		resp["doctor"] = user.Doctor
	}
	if user.Patient != nil {
		resp["patient"] = user.Patient
	}

	c.JSON(http.StatusOK, resp)
}

// ======================================================
// NOTIFICATIONS
// ======================================================

func recipientOf(c *gin.Context) notification.Recipient {
	actor := middleware.ActorFrom(c)
	return notification.Recipient{DoctorID: actor.DoctorID, PatientID: actor.PatientID}
}

func (h *MeHandler) ListNotifications(c *gin.Context) {
	to := recipientOf(c)
	if to.DoctorID == nil && to.PatientID == nil {
		httperr.Forbidden(c, "forbidden", "No profile linked to this user.")
		return
	}

	items, err := h.inbox.List(c.Request.Context(), to, c.Query("unread") == "true")
	if err != nil {
		writeError(c, h.logger, "failed_to_list_notifications", err)
		return
	}

	httpresp.List(c, items)
}

func (h *MeHandler) MarkNotificationRead(c *gin.Context) {
	to := recipientOf(c)
	if to.DoctorID == nil && to.PatientID == nil {
		httperr.Forbidden(c, "forbidden", "No profile linked to this user.")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return
	}

	now := timezone.NowIn(h.timezone)
	if err := h.inbox.MarkRead(c.Request.Context(), to, uint(id), now); err != nil {
		writeError(c, h.logger, "failed_to_mark_notification", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "read_at": now})
}
