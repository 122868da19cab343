package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Specialization string `gorm:"size:100" json:"specialization"`
	LicenseNumber  string `gorm:"size:50" json:"license_number"`
	Phone          string `gorm:"size:20" json:"phone"`
	PhotoURL       string `gorm:"size:255" json:"photo_url"`

	// Chave geral: quando false o médico não aceita nenhum agendamento
	IsAvailableForAppointments bool `gorm:"default:true" json:"is_available_for_appointments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
