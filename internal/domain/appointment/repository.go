package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AppointmentFinder devolve as consultas agendadas do médico no dia
// (data já normalizada), ignorando excludeID quando informado.
type AppointmentFinder interface {
	ListForDoctorOnDate(
		ctx context.Context,
		doctorID uint,
		date time.Time,
		excludeID *uint,
	) ([]models.Appointment, error)
}

// DoctorDirectory resolve o perfil do médico. Deve devolver
// ErrDoctorNotFound quando o id não existe.
type DoctorDirectory interface {
	GetDoctor(
		ctx context.Context,
		doctorID uint,
	) (*models.Doctor, error)
}

type Repository interface {
	AppointmentFinder
	DoctorDirectory

	// -------- Patient --------
	GetPatient(
		ctx context.Context,
		patientID uint,
	) (*models.Patient, error)

	// -------- Appointment (create / update / delete) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID uint,
	) error

	// -------- Listagem --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
