package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notify   notification.Sender
	logger   *zap.Logger
	timezone string
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify notification.Sender,
	logger *zap.Logger,
	tz string,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		notify:   notify,
		logger:   logger,
		timezone: tz,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	meta RequestMeta,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := actor.CanAccess(ap); err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(appointmentEvent(meta, "appointment_cancelled", ap, nil))
	notifyParticipants(ctx, uc.notify, uc.logger, notification.TypeAppointmentCancelled, ap)

	return ap, nil
}
