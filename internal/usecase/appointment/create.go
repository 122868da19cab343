package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

var ErrInvalidDate = httperr.ErrBusiness("invalid_date")

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	DoctorID  uint
	PatientID uint

	Date      string // YYYY-MM-DD
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Reason    string

	Meta RequestMeta
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	checker *domain.AvailabilityChecker
	locker  lock.Locker
	audit   *audit.Dispatcher
	notify  notification.Sender
	logger  *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	notify notification.Sender,
	logger *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
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

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Data / faixa horária
	// --------------------------------------------------
	date, err := timezone.ParseDate(in.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	date = domain.NormalizeDate(date)

	if _, err := domain.NewInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Paciente
	// --------------------------------------------------
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Lock médico + dia
	// --------------------------------------------------
	release, err := acquireSlot(ctx, uc.locker, in.DoctorID, date)
	if err != nil {
		return nil, err
	}
	defer release()

	ap := &models.Appointment{
		DoctorID:  in.DoctorID,
		PatientID: in.PatientID,
		Date:      date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    string(domain.InitialStatus()),
		Reason:    in.Reason,
	}

	// --------------------------------------------------
	// 4️⃣ Disponibilidade (conflito + flag do médico)
	// --------------------------------------------------
	if err := uc.checker.Check(ctx, domain.SlotInput{
		DoctorID:  in.DoctorID,
		Date:      date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}); err != nil {
		uc.auditConflict(in.Meta, ap, err)
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Persistência (índice único como barreira final)
	// --------------------------------------------------
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		uc.auditConflict(in.Meta, ap, err)
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria + notificações
	// --------------------------------------------------
	uc.audit.Dispatch(appointmentEvent(in.Meta, "appointment_created", ap, slotMeta(ap)))
	notifyParticipants(ctx, uc.notify, uc.logger, notification.TypeAppointmentBooked, ap)

	return ap, nil
}

func (uc *CreateAppointment) auditConflict(meta RequestMeta, ap *models.Appointment, err error) {
	if errors.Is(err, domain.ErrSlotConflict) {
		uc.audit.Dispatch(appointmentEvent(meta, "appointment_conflict", nil, slotMeta(ap)))
	}
}
