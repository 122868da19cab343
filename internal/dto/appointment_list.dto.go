package dto

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

type AppointmentListDTO struct {
	ID          uint   `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	PatientID   uint   `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Reason      string `json:"reason"`
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date.Format("2006-01-02"),
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			PatientID:   ap.PatientID,
			PatientName: ap.Patient.Name,
			Reason:      ap.Reason,
		})
	}
	return out
}
