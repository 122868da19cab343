package appointment

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type SlotInput struct {
	DoctorID  uint
	Date      time.Time
	StartTime string
	EndTime   string

	// Consulta sendo editada; nunca conflita consigo mesma
	ExcludeID *uint
}

// AvailabilityChecker decide se um horário proposto pode ser gravado.
// Não grava nada: a persistência é do chamador.
type AvailabilityChecker struct {
	appointments AppointmentFinder
	doctors      DoctorDirectory
}

func NewAvailabilityChecker(
	appointments AppointmentFinder,
	doctors DoctorDirectory,
) *AvailabilityChecker {
	return &AvailabilityChecker{
		appointments: appointments,
		doctors:      doctors,
	}
}

func (c *AvailabilityChecker) Check(ctx context.Context, in SlotInput) error {
	proposed, err := NewInterval(in.StartTime, in.EndTime)
	if err != nil {
		return err
	}

	day := NormalizeDate(in.Date)

	// As duas leituras são independentes; o veredito abaixo tem ordem fixa.
	var (
		existing  []models.Appointment
		doctor    *models.Doctor
		doctorErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		aps, err := c.appointments.ListForDoctorOnDate(ctx, in.DoctorID, day, in.ExcludeID)
		if err != nil {
			return fmt.Errorf("list appointments for doctor %d: %w", in.DoctorID, err)
		}
		existing = aps
		return nil
	})
	g.Go(func() error {
		doctor, doctorErr = c.doctors.GetDoctor(ctx, in.DoctorID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if FindConflict(existing, proposed, in.ExcludeID) != nil {
		return ErrSlotConflict
	}

	if doctorErr != nil {
		return doctorErr
	}
	if !doctor.IsAvailableForAppointments {
		return ErrDoctorUnavailable
	}

	return nil
}

// FindConflict devolve a primeira consulta que colide com o intervalo
// proposto. Registros com horário ilegível contam como conflito.
func FindConflict(
	existing []models.Appointment,
	proposed Interval,
	excludeID *uint,
) *models.Appointment {
	for i := range existing {
		ap := &existing[i]

		if excludeID != nil && ap.ID == *excludeID {
			continue
		}

		stored, err := Slot(ap)
		if err != nil || stored.Overlaps(proposed) {
			return ap
		}
	}
	return nil
}
