package models

import "time"

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'patient'" json:"role"`

	// Perfil vinculado, conforme o papel
	DoctorID  *uint    `json:"doctor_id"`
	Doctor    *Doctor  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor,omitempty"`
	PatientID *uint    `json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
