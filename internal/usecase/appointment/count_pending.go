package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
)

type CountPendingAppointments struct {
	repo domain.Repository
}

func NewCountPendingAppointments(repo domain.Repository) *CountPendingAppointments {
	return &CountPendingAppointments{repo: repo}
}

func (uc *CountPendingAppointments) Execute(
	ctx context.Context,
	principal identity.Principal,
) (int64, error) {
	professionalID, err := principal.ProfessionalID()
	if err != nil {
		return 0, err
	}
	return uc.repo.CountAppointmentsByStatus(ctx, professionalID, domain.StatusPending)
}
