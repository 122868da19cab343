package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAuditLogsHandler(db *gorm.DB, logger *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, logger: logger}
}

type auditQuery struct {
	action string
	entity string
	from   *time.Time
	to     *time.Time
	page   int
	limit  int
}

func parseAuditQuery(c *gin.Context) auditQuery {
	q := auditQuery{
		action: c.Query("action"),
		entity: c.Query("entity"),
	}

	q.page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if q.page <= 0 {
		q.page = 1
	}

	q.limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if q.limit <= 0 || q.limit > 200 {
		q.limit = 50
	}

	if from, err := timezone.ParseDate(c.Query("from")); err == nil {
		q.from = &from
	}
	if to, err := timezone.ParseDate(c.Query("to")); err == nil {
		end := to.Add(24 * time.Hour)
		q.to = &end
	}

	return q
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)
	params := parseAuditQuery(c)

	// --------------------------------------------------
	// Query base (sempre restrita ao usuário logado)
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("user_id = ?", userID)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if params.action != "" {
		q = q.Where("action = ?", params.action)
	}
	if params.entity != "" {
		q = q.Where("entity = ?", params.entity)
	}
	if params.from != nil {
		q = q.Where("created_at >= ?", *params.from)
	}
	if params.to != nil {
		q = q.Where("created_at < ?", *params.to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(c, h.logger, "audit_count_failed", err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(params.limit).
		Offset((params.page - 1) * params.limit).
		Find(&logs).Error; err != nil {
		writeError(c, h.logger, "audit_list_failed", err)
		return
	}

	httpresp.Page(c, logs, params.page, params.limit, total)
}
