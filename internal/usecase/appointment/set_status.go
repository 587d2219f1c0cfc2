package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/pro-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/timezone"
)

type SetAppointmentStatus struct {
	repo    domain.Repository
	auditor Auditor
	log     zerolog.Logger
	now     func() time.Time
}

func NewSetAppointmentStatus(
	repo domain.Repository,
	auditor Auditor,
	log zerolog.Logger,
	loc *time.Location,
) *SetAppointmentStatus {
	return &SetAppointmentStatus{
		repo:    repo,
		auditor: auditor,
		log:     log.With().Str("usecase", "set_status").Logger(),
		now:     func() time.Time { return timezone.NowIn(loc) },
	}
}

// Execute moves an appointment of the caller to status. Any transition is
// accepted; reviving a cancelled appointment is logged and still subject to
// the store's overlap constraint.
func (uc *SetAppointmentStatus) Execute(
	ctx context.Context,
	principal identity.Principal,
	appointmentID string,
	status string,
) (*models.Appointment, error) {

	professionalID, err := principal.ProfessionalID()
	if err != nil {
		return nil, err
	}

	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, professionalID, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	prev := ap.Status
	if domain.ApplyStatus(ap, next, uc.now()) {
		uc.log.Warn().
			Str("professional_id", professionalID).
			Str("appointment_id", ap.ID).
			Str("status", string(next)).
			Msg("cancelled appointment revived")
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrOverlap) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeSlotConflict, "slot was taken while the appointment was cancelled")
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if uc.auditor != nil {
		uc.auditor.Dispatch(audit.Event{
			ProfessionalID: professionalID,
			UserID:         &principal.UserID,
			Action:         audit.ActionAppointmentStatusChanged,
			Entity:         "appointment",
			EntityID:       &ap.ID,
			Metadata:       map[string]string{"from": prev, "to": ap.Status},
		})
	}

	return ap, nil
}
