package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
)

type GetAvailability struct {
	repo    domain.Repository
	policy  *domain.WorkingHoursPolicy
	stepMin int
}

func NewGetAvailability(repo domain.Repository, stepMin int) *GetAvailability {
	if stepMin <= 0 {
		stepMin = domain.DefaultSlotStepMinutes
	}
	return &GetAvailability{
		repo:    repo,
		policy:  domain.NewWorkingHoursPolicy(repo),
		stepMin: stepMin,
	}
}

// Execute lists the free start times ("HH:MM") for the service on in.Date.
// A closed day yields an empty list. Nothing is written.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]string, error) {

	if strings.TrimSpace(in.ProfessionalID) == "" || strings.TrimSpace(in.ServiceID) == "" {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "professional and service are required")
	}
	if in.Date.IsZero() {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "date is required")
	}

	svc, err := resolveService(ctx, uc.repo, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	intervals, err := uc.policy.OpenIntervals(ctx, in.ProfessionalID, int(in.Date.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		return []string{}, nil
	}

	dayStart, dayEnd := domain.DayBounds(in.Date)
	busy, err := uc.repo.ListActiveAppointmentsBetween(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return domain.GenerateSlots(in.Date, intervals, svc.DurationMin, uc.stepMin, busy), nil
}
