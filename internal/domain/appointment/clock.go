package appointment

import (
	"fmt"
	"time"
)

// ClockTime é um horário de parede em minutos desde a meia-noite.
type ClockTime int

// ParseClock aceita somente "HH:MM" 24h com zero à esquerda.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	return ClockTime(h*60 + m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval é o intervalo semiaberto [Start, End).
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// NewInterval valida o par início/fim. Intervalos vazios ou invertidos
// são rejeitados antes de qualquer comparação de sobreposição.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, ErrInvalidTimeRange
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, ErrInvalidTimeRange
	}
	if s >= e {
		return Interval{}, ErrInvalidTimeRange
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reporta se o intervalo proposto p colide com o armazenado i.
// Encostar (i.End == p.Start ou p.End == i.Start) não é conflito.
func (i Interval) Overlaps(p Interval) bool {
	startsInside := i.Start <= p.Start && p.Start < i.End
	endsInside := i.Start < p.End && p.End <= i.End
	encloses := p.Start <= i.Start && i.End <= p.End

	return startsInside || endsInside || encloses
}

// NormalizeDate descarta a hora: meia-noite UTC do dia de calendário de t.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
