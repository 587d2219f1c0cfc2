package appointment

import (
	"strings"

	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus accepts any casing of the four known statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", httperr.ErrBusinessMsg(httperr.CodeValidation, "unknown status "+s)
}

// Blocking reports whether an appointment in this status occupies its slot.
func (s Status) Blocking() bool {
	return s != StatusCancelled
}

// InitialStatus is the status a new appointment starts in: self-service
// bookings wait for the professional, manual ones are already confirmed.
func InitialStatus(source Source) Status {
	if source == SourceManual {
		return StatusConfirmed
	}
	return StatusPending
}

// Source tells who created the booking.
type Source string

const (
	SourcePublic Source = "public"
	SourceManual Source = "manual"
)
