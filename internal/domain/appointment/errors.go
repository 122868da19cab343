package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// Rejeições de regra de negócio. Nenhuma delas é transitória: o chamador
// devolve ao cliente como está, sem retry.
var (
	ErrSlotConflict      = httperr.ErrBusiness("slot_conflict")
	ErrDoctorUnavailable = httperr.ErrBusiness("doctor_unavailable")
	ErrDoctorNotFound    = httperr.ErrBusiness("doctor_not_found")
	ErrPatientNotFound   = httperr.ErrBusiness("patient_not_found")
	ErrNotFound          = httperr.ErrBusiness("appointment_not_found")
	ErrInvalidTimeRange  = httperr.ErrBusiness("invalid_time_range")
	ErrInvalidState      = httperr.ErrBusiness("invalid_state")
	ErrBookingInProgress = httperr.ErrBusiness("booking_in_progress")
)
