package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type CompleteAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	timezone string
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		audit:    audit,
		timezone: tz,
	}
}

// Só o médico da consulta conclui.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	meta RequestMeta,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if actor.DoctorID == nil || *actor.DoctorID != ap.DoctorID {
		return nil, domain.ErrForbidden
	}

	now := timezone.NowIn(uc.timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(appointmentEvent(meta, "appointment_completed", ap, nil))

	return ap, nil
}
