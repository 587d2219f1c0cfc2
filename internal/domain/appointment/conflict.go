package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// Overlaps is the half-open overlap test: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ConflictsWith reports whether [start,end) overlaps any blocking
// appointment in apps, skipping excludeID.
func ConflictsWith(apps []models.Appointment, start, end time.Time, excludeID string) bool {
	for _, ap := range apps {
		if excludeID != "" && ap.ID == excludeID {
			continue
		}
		if !Status(ap.Status).Blocking() {
			continue
		}
		if Overlaps(ap.StartAt, ap.EndAt, start, end) {
			return true
		}
	}
	return false
}

// AppointmentReader returns a professional's non-cancelled appointments
// overlapping [start,end).
type AppointmentReader interface {
	ListActiveAppointmentsBetween(
		ctx context.Context,
		professionalID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

type ConflictDetector struct {
	reader AppointmentReader
}

func NewConflictDetector(reader AppointmentReader) *ConflictDetector {
	return &ConflictDetector{reader: reader}
}

func (d *ConflictDetector) HasConflict(
	ctx context.Context,
	professionalID string,
	start time.Time,
	end time.Time,
	excludeID string,
) (bool, error) {
	apps, err := d.reader.ListActiveAppointmentsBetween(ctx, professionalID, start, end)
	if err != nil {
		return false, fmt.Errorf("list appointments: %w", err)
	}
	for _, ap := range apps {
		if ap.ProfessionalID != professionalID {
			return false, fmt.Errorf("appointment %s outside tenant %s", ap.ID, professionalID)
		}
	}
	return ConflictsWith(apps, start, end, excludeID), nil
}
