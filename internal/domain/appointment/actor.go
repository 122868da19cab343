package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var ErrForbidden = httperr.ErrBusiness("forbidden")

// Actor é quem está operando, extraído do token.
type Actor struct {
	UserID    uint
	Role      string
	DoctorID  *uint
	PatientID *uint
}

// CanAccess: médico da consulta ou o próprio paciente.
func (a Actor) CanAccess(ap *models.Appointment) error {
	if a.DoctorID != nil && *a.DoctorID == ap.DoctorID {
		return nil
	}
	if a.PatientID != nil && *a.PatientID == ap.PatientID {
		return nil
	}
	return ErrForbidden
}
