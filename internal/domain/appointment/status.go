package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ===============================
// Validations
// ===============================

// CanCancel define se uma consulta pode ser cancelada
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return ErrInvalidState
	}
	return nil
}

// CanComplete define se uma consulta pode ser concluída
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return ErrInvalidState
	}
	return nil
}

// CanReschedule: só consultas agendadas mudam de data/horário
func CanReschedule(current Status) error {
	if current != StatusScheduled {
		return ErrInvalidState
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
