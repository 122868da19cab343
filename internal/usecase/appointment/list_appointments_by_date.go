package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	doctorID uint,
	dateStr string,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.repo.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	start := domain.NormalizeDate(date)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		doctorID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments), nil
}
