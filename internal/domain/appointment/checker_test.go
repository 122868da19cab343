package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// -- Stubs --

type appointmentFinderStub struct {
	appointments []models.Appointment
	err          error

	calls     int
	lastDate  time.Time
	lastExcl  *uint
	filterOut bool
}

func (s *appointmentFinderStub) ListForDoctorOnDate(
	_ context.Context,
	doctorID uint,
	date time.Time,
	excludeID *uint,
) ([]models.Appointment, error) {
	s.calls++
	s.lastDate = date
	s.lastExcl = excludeID
	if s.err != nil {
		return nil, s.err
	}

	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.DoctorID != doctorID || !ap.Date.Equal(date) {
			continue
		}
		if s.filterOut && excludeID != nil && ap.ID == *excludeID {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

type doctorDirectoryStub struct {
	doctors map[uint]*models.Doctor
	calls   int
}

func (s *doctorDirectoryStub) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	s.calls++
	d, ok := s.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

const doctorD uint = 7

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stored(id uint, date time.Time, start, end string) models.Appointment {
	return models.Appointment{
		ID:        id,
		DoctorID:  doctorD,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    string(StatusScheduled),
	}
}

func newChecker(available bool, aps ...models.Appointment) (*AvailabilityChecker, *appointmentFinderStub, *doctorDirectoryStub) {
	finder := &appointmentFinderStub{appointments: aps}
	dir := &doctorDirectoryStub{doctors: map[uint]*models.Doctor{
		doctorD: {ID: doctorD, Name: "Dr. D", IsAvailableForAppointments: available},
	}}
	return NewAvailabilityChecker(finder, dir), finder, dir
}

func ptr(v uint) *uint { return &v }

func TestAvailabilityChecker_Scenarios(t *testing.T) {
	oct15 := day(2023, time.October, 15)
	oct16 := day(2023, time.October, 16)

	cases := []struct {
		name      string
		available bool
		existing  []models.Appointment
		in        SlotInput
		want      error
	}{
		{
			name:      "proposed starts inside stored",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:15", EndTime: "10:45"},
			want:      ErrSlotConflict,
		},
		{
			name:      "back to back is allowed",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:30", EndTime: "11:00"},
			want:      nil,
		},
		{
			name:      "back to back before is allowed",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "09:30", EndTime: "10:00"},
			want:      nil,
		},
		{
			name:      "update excludes itself",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:05", EndTime: "10:35", ExcludeID: ptr(1)},
			want:      nil,
		},
		{
			name:      "empty calendar but doctor unavailable",
			available: false,
			in:        SlotInput{DoctorID: doctorD, Date: oct16, StartTime: "09:00", EndTime: "09:30"},
			want:      ErrDoctorUnavailable,
		},
		{
			name:      "proposed ends inside stored",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "11:00")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "09:30", EndTime: "10:30"},
			want:      ErrSlotConflict,
		},
		{
			name:      "proposed encloses stored",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "09:00", EndTime: "11:00"},
			want:      ErrSlotConflict,
		},
		{
			name:      "identical slot without exclusion",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:00", EndTime: "10:30"},
			want:      ErrSlotConflict,
		},
		{
			name:      "other day does not conflict",
			available: true,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct16, StartTime: "10:00", EndTime: "10:30"},
			want:      nil,
		},
		{
			name:      "conflict wins over unavailability",
			available: false,
			existing:  []models.Appointment{stored(1, oct15, "10:00", "10:30")},
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:00", EndTime: "10:30"},
			want:      ErrSlotConflict,
		},
		{
			name:      "exclusion still checks the other appointments",
			available: true,
			existing: []models.Appointment{
				stored(1, oct15, "10:00", "10:30"),
				stored(2, oct15, "10:30", "11:00"),
			},
			in:   SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:15", EndTime: "10:45", ExcludeID: ptr(1)},
			want: ErrSlotConflict,
		},
		{
			name:      "unknown doctor",
			available: true,
			in:        SlotInput{DoctorID: 99, Date: oct15, StartTime: "10:00", EndTime: "10:30"},
			want:      ErrDoctorNotFound,
		},
		{
			name:      "inverted range",
			available: true,
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "11:00", EndTime: "10:00"},
			want:      ErrInvalidTimeRange,
		},
		{
			name:      "zero length range",
			available: true,
			in:        SlotInput{DoctorID: doctorD, Date: oct15, StartTime: "10:00", EndTime: "10:00"},
			want:      ErrInvalidTimeRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker, _, _ := newChecker(tc.available, tc.existing...)

			err := checker.Check(context.Background(), tc.in)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAvailabilityChecker_NormalizesDateBeforeQuerying(t *testing.T) {
	checker, finder, _ := newChecker(true, stored(1, day(2023, time.October, 15), "10:00", "10:30"))

	withClock := time.Date(2023, time.October, 15, 18, 42, 0, 0, time.UTC)
	err := checker.Check(context.Background(), SlotInput{
		DoctorID: doctorD, Date: withClock, StartTime: "10:15", EndTime: "10:45",
	})

	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected conflict after normalization, got %v", err)
	}
	if !finder.lastDate.Equal(day(2023, time.October, 15)) {
		t.Fatalf("finder queried with %v", finder.lastDate)
	}
}

func TestAvailabilityChecker_PassesExclusionToRepository(t *testing.T) {
	checker, finder, _ := newChecker(true, stored(1, day(2023, time.October, 15), "10:00", "10:30"))
	finder.filterOut = true

	err := checker.Check(context.Background(), SlotInput{
		DoctorID: doctorD, Date: day(2023, time.October, 15),
		StartTime: "10:05", EndTime: "10:35", ExcludeID: ptr(1),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if finder.lastExcl == nil || *finder.lastExcl != 1 {
		t.Fatalf("exclusion id not forwarded: %v", finder.lastExcl)
	}
}

func TestAvailabilityChecker_AlwaysConsultsDoctor(t *testing.T) {
	checker, finder, dir := newChecker(true)

	err := checker.Check(context.Background(), SlotInput{
		DoctorID: doctorD, Date: day(2023, time.October, 16), StartTime: "09:00", EndTime: "09:30",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if finder.calls != 1 || dir.calls != 1 {
		t.Fatalf("expected one call each, got finder=%d doctors=%d", finder.calls, dir.calls)
	}
}

func TestAvailabilityChecker_RepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	checker, finder, _ := newChecker(true)
	finder.err = boom

	err := checker.Check(context.Background(), SlotInput{
		DoctorID: doctorD, Date: day(2023, time.October, 15), StartTime: "09:00", EndTime: "09:30",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if errors.Is(err, ErrSlotConflict) {
		t.Fatalf("infrastructure failure must not look like a conflict")
	}
}

func TestAvailabilityChecker_IsDeterministic(t *testing.T) {
	checker, _, _ := newChecker(true, stored(1, day(2023, time.October, 15), "10:00", "10:30"))
	in := SlotInput{DoctorID: doctorD, Date: day(2023, time.October, 15), StartTime: "10:15", EndTime: "10:45"}

	first := checker.Check(context.Background(), in)
	for i := 0; i < 20; i++ {
		if err := checker.Check(context.Background(), in); !errors.Is(err, first) {
			t.Fatalf("run %d: got %v, first run gave %v", i, err, first)
		}
	}
}

func TestFindConflict_CorruptStoredSlotBlocks(t *testing.T) {
	proposed, _ := NewInterval("15:00", "15:30")
	existing := []models.Appointment{stored(3, day(2023, time.October, 15), "bad", "10:00")}

	if got := FindConflict(existing, proposed, nil); got == nil || got.ID != 3 {
		t.Fatalf("expected corrupt record to block booking, got %v", got)
	}
	if got := FindConflict(existing, proposed, ptr(3)); got != nil {
		t.Fatalf("excluded record must be skipped, got %v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	now := time.Date(2023, time.October, 15, 12, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusScheduled)}
	if err := Cancel(ap, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) || ap.CancelledAt == nil {
		t.Fatalf("cancel did not update state: %+v", ap)
	}
	if err := Complete(ap, now); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("completing a cancelled appointment: got %v", err)
	}
	if err := CanReschedule(Status(ap.Status)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("rescheduling a cancelled appointment: got %v", err)
	}

	ap = &models.Appointment{Status: string(StatusScheduled)}
	if err := Complete(ap, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Fatalf("completed_at not set")
	}
}

func TestActor_CanAccess(t *testing.T) {
	ap := &models.Appointment{DoctorID: 7, PatientID: 3}

	if err := (Actor{DoctorID: ptr(7)}).CanAccess(ap); err != nil {
		t.Fatalf("doctor of the appointment: %v", err)
	}
	if err := (Actor{PatientID: ptr(3)}).CanAccess(ap); err != nil {
		t.Fatalf("patient of the appointment: %v", err)
	}
	if err := (Actor{DoctorID: ptr(8)}).CanAccess(ap); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other doctor: got %v", err)
	}
	if err := (Actor{}).CanAccess(ap); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous: got %v", err)
	}
}
