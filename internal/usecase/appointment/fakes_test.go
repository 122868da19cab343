package appointment

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// -- In-memory repository --

type memRepo struct {
	mu           sync.Mutex
	nextID       uint
	doctors      map[uint]*models.Doctor
	patients     map[uint]*models.Patient
	appointments map[uint]models.Appointment

	// simula o índice único (doctor_id, date, start_time) parcial
	enforceUnique bool
	createErr     error
}

func newMemRepo() *memRepo {
	return &memRepo{
		nextID:       100,
		doctors:      map[uint]*models.Doctor{},
		patients:     map[uint]*models.Patient{},
		appointments: map[uint]models.Appointment{},
	}
}

func (r *memRepo) addDoctor(id uint, available bool) {
	r.doctors[id] = &models.Doctor{ID: id, Name: "Dr. Test", IsAvailableForAppointments: available}
}

func (r *memRepo) addPatient(id uint) {
	r.patients[id] = &models.Patient{ID: id, Name: "Patient Test"}
}

func (r *memRepo) seed(ap models.Appointment) {
	if ap.Status == "" {
		ap.Status = string(domain.StatusScheduled)
	}
	r.appointments[ap.ID] = ap
}

func (r *memRepo) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memRepo) GetPatient(_ context.Context, id uint) (*models.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) ListForDoctorOnDate(_ context.Context, doctorID uint, date time.Time, excludeID *uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || !ap.Date.Equal(date) || ap.Status != string(domain.StatusScheduled) {
			continue
		}
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *memRepo) violatesUnique(ap *models.Appointment) bool {
	if !r.enforceUnique || ap.Status != string(domain.StatusScheduled) {
		return false
	}
	for _, other := range r.appointments {
		if other.ID != ap.ID &&
			other.Status == string(domain.StatusScheduled) &&
			other.DoctorID == ap.DoctorID &&
			other.Date.Equal(ap.Date) &&
			other.StartTime == ap.StartTime {
			return true
		}
	}
	return false
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if r.violatesUnique(ap) {
		return domain.ErrSlotConflict
	}
	r.nextID++
	ap.ID = r.nextID
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.violatesUnique(ap) {
		return domain.ErrSlotConflict
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && !ap.Date.Before(from) && ap.Date.Before(to) {
			out = append(out, ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

// -- Locker --

type lockerStub struct {
	mu       sync.Mutex
	acquired []string
	released int
	err      error
}

func (l *lockerStub) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
	}, nil
}

var _ lock.Locker = (*lockerStub)(nil)

// -- Notification sender --

type senderStub struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (s *senderStub) Send(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

// -- Audit --

type auditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *auditRecorder) Write(ev audit.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return nil
}

func (a *auditRecorder) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

// -- Fixture --

const (
	testDoctor  uint = 7
	testPatient uint = 3
)

type fixture struct {
	repo       *memRepo
	locker     *lockerStub
	sender     *senderStub
	audit      *auditRecorder
	dispatcher *audit.Dispatcher

	create   *CreateAppointment
	update   *UpdateAppointment
	cancel   *CancelAppointment
	complete *CompleteAppointment
	remove   *DeleteAppointment
	get      *GetAppointment
	byDate   *ListAppointmentsByDate
	byMonth  *ListAppointmentsByMonth
}

func newFixture(doctorAvailable bool) *fixture {
	repo := newMemRepo()
	repo.addDoctor(testDoctor, doctorAvailable)
	repo.addPatient(testPatient)

	f := &fixture{
		repo:   repo,
		locker: &lockerStub{},
		sender: &senderStub{},
		audit:  &auditRecorder{},
	}
	logger := zap.NewNop()
	f.dispatcher = audit.NewDispatcher(f.audit, logger)

	f.create = NewCreateAppointment(repo, f.locker, f.dispatcher, f.sender, logger)
	f.update = NewUpdateAppointment(repo, f.locker, f.dispatcher, f.sender, logger)
	f.cancel = NewCancelAppointment(repo, f.dispatcher, f.sender, logger, "UTC")
	f.complete = NewCompleteAppointment(repo, f.dispatcher, "UTC")
	f.remove = NewDeleteAppointment(repo, f.dispatcher)
	f.get = NewGetAppointment(repo)
	f.byDate = NewListAppointmentsByDate(repo)
	f.byMonth = NewListAppointmentsByMonth(repo)
	return f
}

// flush espera o worker de auditoria gravar tudo.
func (f *fixture) flush() {
	f.dispatcher.Close()
}

func oct(d int) time.Time {
	return time.Date(2023, time.October, d, 0, 0, 0, 0, time.UTC)
}

func scheduled(id uint, date time.Time, start, end string) models.Appointment {
	return models.Appointment{
		ID:        id,
		DoctorID:  testDoctor,
		PatientID: testPatient,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.StatusScheduled),
	}
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint   { return &v }

func doctorActor() domain.Actor  { return domain.Actor{UserID: 1, DoctorID: uintPtr(testDoctor)} }
func patientActor() domain.Actor { return domain.Actor{UserID: 2, PatientID: uintPtr(testPatient)} }
