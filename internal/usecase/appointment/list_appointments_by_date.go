package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists every appointment of the caller starting on date, in any
// status.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	principal identity.Principal,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	professionalID, err := principal.ProfessionalID()
	if err != nil {
		return nil, err
	}

	start, end := domain.DayBounds(date)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		professionalID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}
