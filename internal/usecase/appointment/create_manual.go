package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
)

type ManualBookingInput struct {
	ServiceID string
	StartAt   string // YYYY-MM-DDTHH:MM

	ClientName  string
	ClientEmail string
	ClientPhone string
	Notes       string
}

// CreateManualAppointment books on behalf of a client from the
// professional's own calendar. The appointment is created CONFIRMED.
type CreateManualAppointment struct {
	admit *AdmitBooking
	loc   *time.Location
}

func NewCreateManualAppointment(admit *AdmitBooking, loc *time.Location) *CreateManualAppointment {
	return &CreateManualAppointment{admit: admit, loc: loc}
}

func (uc *CreateManualAppointment) Execute(
	ctx context.Context,
	principal identity.Principal,
	in ManualBookingInput,
) (*models.Appointment, error) {

	professionalID, err := principal.ProfessionalID()
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseLocalDateTime(uc.loc, in.StartAt)
	if err != nil {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "invalid start time")
	}

	actor := principal.UserID
	return uc.admit.Execute(ctx, AdmitInput{
		ProfessionalID: professionalID,
		ServiceID:      in.ServiceID,
		Start:          start,
		ClientName:     in.ClientName,
		ClientEmail:    in.ClientEmail,
		ClientPhone:    in.ClientPhone,
		ActorID:        &actor,
		Notes:          in.Notes,
		Source:         domain.SourceManual,
	})
}
