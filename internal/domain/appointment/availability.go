package appointment

import "time"

type AvailabilityInput struct {
	ProfessionalID string
	ServiceID      string
	Date           time.Time
}
