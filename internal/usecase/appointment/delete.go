package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/pro-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
)

// DeleteAppointment removes the row for good; cancelling is a status change.
type DeleteAppointment struct {
	repo    domain.Repository
	auditor Auditor
}

func NewDeleteAppointment(repo domain.Repository, auditor Auditor) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, auditor: auditor}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	principal identity.Principal,
	appointmentID string,
) error {

	professionalID, err := principal.ProfessionalID()
	if err != nil {
		return err
	}

	err = uc.repo.DeleteAppointment(ctx, professionalID, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if uc.auditor != nil {
		uc.auditor.Dispatch(audit.Event{
			ProfessionalID: professionalID,
			UserID:         &principal.UserID,
			Action:         audit.ActionAppointmentDeleted,
			Entity:         "appointment",
			EntityID:       &appointmentID,
		})
	}
	return nil
}
