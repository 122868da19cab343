package notification

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	TypeAppointmentBooked      = "appointment_booked"
	TypeAppointmentRescheduled = "appointment_rescheduled"
	TypeAppointmentCancelled   = "appointment_cancelled"
)

var ErrNotFound = httperr.ErrBusiness("notification_not_found")

type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// Recipient identifica o dono de uma caixa de notificações.
type Recipient struct {
	DoctorID  *uint
	PatientID *uint
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Send(ctx context.Context, n models.Notification) error {
	return s.db.WithContext(ctx).Create(&n).Error
}

func (s *Store) List(ctx context.Context, to Recipient, unreadOnly bool) ([]models.Notification, error) {
	q, err := s.scoped(ctx, to)
	if err != nil {
		return nil, err
	}
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var out []models.Notification
	if err := q.Order("created_at DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, to Recipient, id uint, now time.Time) error {
	q, err := s.scoped(ctx, to)
	if err != nil {
		return err
	}

	res := q.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scoped(ctx context.Context, to Recipient) (*gorm.DB, error) {
	switch {
	case to.DoctorID != nil:
		return s.db.WithContext(ctx).Where("doctor_id = ?", *to.DoctorID), nil
	case to.PatientID != nil:
		return s.db.WithContext(ctx).Where("patient_id = ?", *to.PatientID), nil
	default:
		return nil, fmt.Errorf("notification: empty recipient")
	}
}

// ForAppointment monta as notificações para médico e paciente da consulta.
func ForAppointment(kind string, ap *models.Appointment) []models.Notification {
	when := fmt.Sprintf("%s %s-%s", ap.Date.Format("2006-01-02"), ap.StartTime, ap.EndTime)

	var msg string
	switch kind {
	case TypeAppointmentBooked:
		msg = "New appointment on " + when
	case TypeAppointmentRescheduled:
		msg = "Appointment moved to " + when
	case TypeAppointmentCancelled:
		msg = "Appointment on " + when + " was cancelled"
	default:
		msg = "Appointment on " + when + " was updated"
	}

	apID := ap.ID
	doctorID := ap.DoctorID
	patientID := ap.PatientID

	return []models.Notification{
		{DoctorID: &doctorID, Type: kind, Message: msg, AppointmentID: &apID},
		{PatientID: &patientID, Type: kind, Message: msg, AppointmentID: &apID},
	}
}
