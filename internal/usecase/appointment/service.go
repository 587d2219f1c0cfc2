package appointment

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// resolveService loads a bookable service of the professional. Missing,
// foreign and inactive services all read as service_not_found.
func resolveService(
	ctx context.Context,
	repo domain.Repository,
	professionalID string,
	serviceID string,
) (*models.Service, error) {
	svc, err := repo.GetService(ctx, professionalID, serviceID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if svc.ProfessionalID != professionalID || !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "service has no duration")
	}
	return svc, nil
}
