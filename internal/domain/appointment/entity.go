package appointment

import (
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ApplyStatus moves ap to next and stamps the matching timestamp. Every
// transition is allowed, including out of CANCELLED; the caller decides
// whether a revival deserves a warning.
func ApplyStatus(ap *models.Appointment, next Status, now time.Time) (revived bool) {
	prev := Status(ap.Status)
	revived = prev == StatusCancelled && next != StatusCancelled

	ap.Status = string(next)
	switch next {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	if revived {
		ap.CancelledAt = nil
	}
	return revived
}
