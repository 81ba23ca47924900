package timeslot

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidFormat is returned when a date or clock value cannot be parsed.
	ErrInvalidFormat = errors.New("timeslot: invalid format")
	// ErrInvalidRange is returned when a window would end at or before its start.
	ErrInvalidRange = errors.New("timeslot: end must be after start")
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Window is a half-open interval [Start,End) of minutes within a single
// calendar day. Start and End are minutes of day in the range 0-1439.
type Window struct {
	Date  string
	Start int
	End   int
}

// New parses a window from a "YYYY-MM-DD" date and "HH:mm" clock values.
func New(date, start, end string) (Window, error) {
	if err := ValidateDate(date); err != nil {
		return Window{}, err
	}
	startMin, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if endMin <= startMin {
		return Window{}, ErrInvalidRange
	}
	return Window{Date: date, Start: startMin, End: endMin}, nil
}

// Overlaps reports whether two windows share any instant. Windows on
// different dates never overlap.
func (w Window) Overlaps(other Window) bool {
	if w.Date != other.Date {
		return false
	}
	return w.Start < other.End && other.Start < w.End
}

// Before orders windows on the same date by start minute, then end minute.
func (w Window) Before(other Window) bool {
	if w.Start != other.Start {
		return w.Start < other.Start
	}
	return w.End < other.End
}

// StartClock renders the start minute as "HH:mm".
func (w Window) StartClock() string {
	return FormatClock(w.Start)
}

// EndClock renders the end minute as "HH:mm".
func (w Window) EndClock() string {
	return FormatClock(w.End)
}

// ValidateDate checks that the value is a well-formed "YYYY-MM-DD" date.
func ValidateDate(date string) error {
	if len(date) != len(dateLayout) {
		return ErrInvalidFormat
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidFormat
	}
	return nil
}

// ParseClock converts an "HH:mm" value to a minute of day.
func ParseClock(clock string) (int, error) {
	if len(clock) != len(clockLayout) {
		return 0, ErrInvalidFormat
	}
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders a minute of day as "HH:mm".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// DateOf renders the calendar date of an instant as "YYYY-MM-DD".
func DateOf(t time.Time) string {
	return t.Format(dateLayout)
}

// MinuteOfDay returns the minute of day of an instant.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
