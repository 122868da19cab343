package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
)

// Meta comum de toda requisição que altera consultas.
type RequestMeta struct {
	ActorUserID *uint
	RequestID   string
}

func appointmentEvent(meta RequestMeta, action string, ap *models.Appointment, extra any) audit.Event {
	ev := audit.Event{
		UserID:    meta.ActorUserID,
		Action:    action,
		Entity:    "appointment",
		Metadata:  extra,
		RequestID: meta.RequestID,
	}
	if ap != nil && ap.ID != 0 {
		id := ap.ID
		ev.EntityID = &id
	}
	return ev
}

// notifyParticipants é best-effort: falha de notificação não desfaz a consulta.
func notifyParticipants(
	ctx context.Context,
	sender notification.Sender,
	logger *zap.Logger,
	kind string,
	ap *models.Appointment,
) {
	if sender == nil {
		return
	}
	for _, n := range notification.ForAppointment(kind, ap) {
		if err := sender.Send(ctx, n); err != nil {
			logger.Warn("failed to send notification",
				zap.String("type", kind),
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		}
	}
}

func slotMeta(ap *models.Appointment) map[string]any {
	return map[string]any{
		"doctor_id":  ap.DoctorID,
		"date":       ap.Date.Format("2006-01-02"),
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	}
}
