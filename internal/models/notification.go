package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Exatamente um destinatário é preenchido
	DoctorID  *uint `gorm:"index" json:"doctor_id,omitempty"`
	PatientID *uint `gorm:"index" json:"patient_id,omitempty"`

	Type          string `gorm:"size:50;not null" json:"type"`
	Message       string `gorm:"size:255;not null" json:"message"`
	AppointmentID *uint  `json:"appointment_id,omitempty"`

	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
