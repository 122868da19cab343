package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// Campos nil não foram enviados e mantêm o valor gravado.
type UpdateAppointmentInput struct {
	AppointmentID uint
	Actor         domain.Actor

	Date      *string
	StartTime *string
	EndTime   *string
	Reason    *string

	Meta RequestMeta
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo    domain.Repository
	checker *domain.AvailabilityChecker
	locker  lock.Locker
	audit   *audit.Dispatcher
	notify  notification.Sender
	logger  *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	notify notification.Sender,
	logger *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:    repo,
		checker: domain.NewAvailabilityChecker(repo, repo),
		locker:  locker,
		audit:   audit,
		notify:  notify,
		logger:  logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := in.Actor.CanAccess(ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Valores efetivos (payload ou gravado)
	// --------------------------------------------------
	date := ap.Date
	if in.Date != nil {
		parsed, err := timezone.ParseDate(*in.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = domain.NormalizeDate(parsed)
	}

	start := ap.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}

	end := ap.EndTime
	if in.EndTime != nil {
		end = *in.EndTime
	}

	timeChanged := !date.Equal(domain.NormalizeDate(ap.Date)) ||
		start != ap.StartTime ||
		end != ap.EndTime

	reasonChanged := in.Reason != nil && *in.Reason != ap.Reason

	if !timeChanged && !reasonChanged {
		return ap, nil
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	before := slotMeta(ap)

	// --------------------------------------------------
	// 2️⃣ Revalidação só quando data/horário mudam
	// --------------------------------------------------
	if timeChanged {
		if _, err := domain.NewInterval(start, end); err != nil {
			return nil, err
		}

		release, err := acquireSlot(ctx, uc.locker, ap.DoctorID, date)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := uc.checker.Check(ctx, domain.SlotInput{
			DoctorID:  ap.DoctorID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			ExcludeID: &ap.ID,
		}); err != nil {
			uc.auditConflict(in.Meta, ap, err, map[string]any{
				"before":     before,
				"date":       date.Format("2006-01-02"),
				"start_time": start,
				"end_time":   end,
			})
			return nil, err
		}

		ap.Date = date
		ap.StartTime = start
		ap.EndTime = end
	}

	if reasonChanged {
		ap.Reason = *in.Reason
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		uc.auditConflict(in.Meta, ap, err, map[string]any{"before": before, "after": slotMeta(ap)})
		return nil, err
	}

	uc.audit.Dispatch(appointmentEvent(in.Meta, "appointment_updated", ap, map[string]any{
		"before": before,
		"after":  slotMeta(ap),
	}))

	if timeChanged {
		notifyParticipants(ctx, uc.notify, uc.logger, notification.TypeAppointmentRescheduled, ap)
	}

	return ap, nil
}

func (uc *UpdateAppointment) auditConflict(meta RequestMeta, ap *models.Appointment, err error, extra map[string]any) {
	if errors.Is(err, domain.ErrSlotConflict) {
		uc.audit.Dispatch(appointmentEvent(meta, "appointment_conflict", ap, extra))
	}
}
