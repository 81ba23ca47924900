package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRoomUnavailable is returned when the room exists but is closed for booking.
	ErrRoomUnavailable = errors.New("application: room unavailable")
	// ErrOutOfWindow is returned when the requested date falls outside the booking horizon.
	ErrOutOfWindow = errors.New("application: date outside booking horizon")
	// ErrPastTime is returned when a same-day reservation starts at or before the current time.
	ErrPastTime = errors.New("application: start time already passed")
	// ErrCapacityExceeded is returned when the headcount exceeds the room capacity.
	ErrCapacityExceeded = errors.New("application: room capacity exceeded")
	// ErrSlotTaken is returned when a confirmed reservation already overlaps the window.
	ErrSlotTaken = errors.New("application: slot already reserved")
	// ErrQuotaExceeded is returned when an involved user is at the future-reservation cap.
	ErrQuotaExceeded = errors.New("application: reservation quota exceeded")
	// ErrWaitlistFull is returned when the user is at the waiting-entry cap.
	ErrWaitlistFull = errors.New("application: waitlist quota exceeded")
	// ErrDuplicateEntry is returned when the user already waits on the exact same slot.
	ErrDuplicateEntry = errors.New("application: duplicate waitlist entry")
	// ErrSlotOpen is returned when joining the waitlist for a slot nobody holds;
	// the correct action is to reserve it directly.
	ErrSlotOpen = errors.New("application: slot is open for reservation")
)

// IsConflict reports whether the error is a domain rule violation caused by
// the current state of the collections, as opposed to malformed input or a
// missing resource.
func IsConflict(err error) bool {
	for _, sentinel := range []error{
		ErrRoomUnavailable,
		ErrOutOfWindow,
		ErrPastTime,
		ErrCapacityExceeded,
		ErrSlotTaken,
		ErrQuotaExceeded,
		ErrWaitlistFull,
		ErrDuplicateEntry,
		ErrSlotOpen,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
