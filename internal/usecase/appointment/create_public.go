package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
)

type PublicBookingInput struct {
	ProfessionalID string
	ServiceID      string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM

	Name  string
	Email string
	Phone string
	Notes string

	// CustomerID is set when a logged-in CLIENT books.
	CustomerID *string
}

// BookingResult is the self-service answer: business rejections are
// results, not errors.
type BookingResult struct {
	Success     bool                `json:"success"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
	Error       string              `json:"error,omitempty"`
	Code        string              `json:"error_code,omitempty"`
}

type CreatePublicAppointment struct {
	admit *AdmitBooking
	loc   *time.Location
}

func NewCreatePublicAppointment(admit *AdmitBooking, loc *time.Location) *CreatePublicAppointment {
	return &CreatePublicAppointment{admit: admit, loc: loc}
}

// Execute returns an error only for infrastructure failures.
func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in PublicBookingInput,
) (BookingResult, error) {

	start, err := timezone.ParseDateTime(uc.loc, in.Date, in.Time)
	if err != nil {
		return failed(httperr.BusinessError{Code: httperr.CodeValidation, Message: "invalid date or time"}), nil
	}

	ap, err := uc.admit.Execute(ctx, AdmitInput{
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		Start:          start,
		ClientName:     in.Name,
		ClientEmail:    in.Email,
		ClientPhone:    in.Phone,
		CustomerID:     in.CustomerID,
		ActorID:        in.CustomerID,
		Notes:          in.Notes,
		Source:         domain.SourcePublic,
	})
	if err != nil {
		if be, ok := httperr.AsBusiness(err); ok {
			return failed(be), nil
		}
		return BookingResult{}, err
	}
	return BookingResult{Success: true, Appointment: ap}, nil
}

func failed(be httperr.BusinessError) BookingResult {
	msg := be.Message
	if msg == "" {
		msg = be.Code
	}
	return BookingResult{Success: false, Error: msg, Code: be.Code}
}
