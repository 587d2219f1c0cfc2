package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/pro-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/lock"
	"github.com/BruksfildServices01/pro-scheduler/internal/metrics"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
	"github.com/BruksfildServices01/pro-scheduler/internal/notification"
	"github.com/BruksfildServices01/pro-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type AdmitInput struct {
	ProfessionalID string
	ServiceID      string
	Start          time.Time

	ClientName  string
	ClientEmail string
	ClientPhone string

	// CustomerID is the authenticated CLIENT account booking for itself.
	CustomerID *string
	// ActorID is who performed the booking, for the audit trail.
	ActorID *string

	Notes  string
	Source domain.Source
}

// Notifier queues a confirmation for asynchronous delivery.
type Notifier interface {
	Dispatch(job notification.Job)
}

// Auditor records audit events without blocking.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// ======================================================
// USE CASE
// ======================================================

// AdmitBooking decides whether a requested interval becomes an appointment.
// Admissions for one professional are serialised by the locker and by a
// row lock inside the transaction; the store's exclusion constraint is the
// last line.
type AdmitBooking struct {
	repo     domain.Repository
	locker   lock.Locker
	notifier Notifier
	auditor  Auditor
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewAdmitBooking(
	repo domain.Repository,
	locker lock.Locker,
	notifier Notifier,
	auditor Auditor,
	m *metrics.Metrics,
	log zerolog.Logger,
) *AdmitBooking {
	return &AdmitBooking{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		auditor:  auditor,
		metrics:  m,
		log:      log.With().Str("usecase", "admit_booking").Logger(),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AdmitBooking) Execute(
	ctx context.Context,
	in AdmitInput,
) (*models.Appointment, error) {

	ap, pro, svc, err := uc.admit(ctx, in)
	if err != nil {
		if code := httperr.CodeOf(err); code != "" {
			uc.metrics.Rejected(string(in.Source), code)
			uc.log.Info().
				Str("professional_id", in.ProfessionalID).
				Str("code", code).
				Time("start", in.Start).
				Msg("booking rejected")
		}
		return nil, err
	}

	uc.metrics.Admitted(string(in.Source))
	uc.log.Info().
		Str("professional_id", ap.ProfessionalID).
		Str("appointment_id", ap.ID).
		Str("status", ap.Status).
		Msg("booking admitted")

	if uc.auditor != nil {
		uc.auditor.Dispatch(audit.Event{
			ProfessionalID: ap.ProfessionalID,
			UserID:         in.ActorID,
			Action:         audit.ActionAppointmentCreated,
			Entity:         "appointment",
			EntityID:       &ap.ID,
			Metadata:       map[string]any{"source": in.Source, "status": ap.Status},
		})
	}

	if uc.notifier != nil && ap.ClientEmail != "" {
		uc.notifier.Dispatch(notification.Job{
			ProfessionalID: ap.ProfessionalID,
			AppointmentID:  ap.ID,
			Email: notification.ConfirmationEmail{
				To:           ap.ClientEmail,
				ClientName:   ap.ClientName,
				ServiceName:  svc.Name,
				BusinessName: businessName(pro),
				StartAt:      ap.StartAt,
				EndAt:        ap.EndAt,
				Address:      pro.Address,
				Phone:        pro.Phone,
			},
		})
	}

	return ap, nil
}

func (uc *AdmitBooking) admit(
	ctx context.Context,
	in AdmitInput,
) (*models.Appointment, *models.User, *models.Service, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	in, err := normalizeAdmitInput(in)
	if err != nil {
		return nil, nil, nil, err
	}

	pro, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "unknown professional")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get professional: %w", err)
	}

	// --------------------------------------------------
	// 2. Service
	// --------------------------------------------------
	svc, err := resolveService(ctx, uc.repo, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, nil, nil, err
	}

	// --------------------------------------------------
	// 3. End
	// --------------------------------------------------
	start := in.Start
	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	waitStart := time.Now()
	unlock, err := uc.locker.Lock(ctx, lock.ProfessionalKey(in.ProfessionalID))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("booking lock: %w", err)
	}
	defer unlock()
	uc.metrics.ObserveLockWait(time.Since(waitStart))

	var ap *models.Appointment
	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockProfessional(ctx, in.ProfessionalID); err != nil {
			return fmt.Errorf("lock professional: %w", err)
		}

		// --------------------------------------------------
		// 4. Working hours
		// --------------------------------------------------
		intervals, err := domain.NewWorkingHoursPolicy(tx).OpenIntervals(ctx, in.ProfessionalID, int(start.Weekday()))
		if err != nil {
			return err
		}
		if len(intervals) == 0 {
			return httperr.ErrBusinessMsg(httperr.CodeProfessionalClosed,
				fmt.Sprintf("closed on %s", start.Weekday()))
		}
		startMin := domain.MinuteOfDay(start)
		if !domain.FitsAny(intervals, startMin, startMin+svc.DurationMin) {
			return httperr.ErrBusinessMsg(httperr.CodeOutsideWorkingHours,
				"open hours: "+domain.DescribeIntervals(intervals))
		}

		// --------------------------------------------------
		// 5. Conflict
		// --------------------------------------------------
		conflict, err := domain.NewConflictDetector(tx).HasConflict(ctx, in.ProfessionalID, start, end, "")
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrBusinessMsg(httperr.CodeSlotConflict, "slot already taken")
		}

		// --------------------------------------------------
		// 6. Client
		// --------------------------------------------------
		var clientID *string
		if in.ClientEmail != "" {
			client, err := getOrCreateClient(ctx, tx, in)
			if err != nil {
				return err
			}
			clientID = &client.ID
		}

		// --------------------------------------------------
		// 7. Commit
		// --------------------------------------------------
		ap = &models.Appointment{
			ProfessionalID: in.ProfessionalID,
			ServiceID:      svc.ID,
			ClientID:       clientID,
			CustomerID:     in.CustomerID,
			StartAt:        start,
			EndAt:          end,
			Status:         string(domain.InitialStatus(in.Source)),
			ClientName:     in.ClientName,
			ClientEmail:    in.ClientEmail,
			ClientPhone:    in.ClientPhone,
			Notes:          in.Notes,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if errors.Is(err, domain.ErrOverlap) {
				return httperr.ErrBusinessMsg(httperr.CodeSlotConflict, "slot already taken")
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	ap.Service = *svc
	return ap, pro, svc, nil
}

// Column widths of the appointment snapshot and client rows.
const (
	maxClientName  = 100
	maxClientEmail = 100
	maxClientPhone = 20
	maxNotes       = 255
)

func normalizeAdmitInput(in AdmitInput) (AdmitInput, error) {
	in.ProfessionalID = strings.TrimSpace(in.ProfessionalID)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = validators.NormalizeEmail(in.ClientEmail)
	in.ClientPhone = strings.TrimSpace(in.ClientPhone)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Source == "" {
		in.Source = domain.SourcePublic
	}

	switch {
	case in.ProfessionalID == "":
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "professional is required")
	case in.ServiceID == "":
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "service is required")
	case in.Start.IsZero():
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "start time is required")
	case in.ClientName == "":
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "client name is required")
	case in.Source == domain.SourcePublic && in.ClientEmail == "":
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "client email is required")
	case in.ClientEmail != "" && !validators.IsEmailSyntaxValid(in.ClientEmail):
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, "invalid client email")
	case utf8.RuneCountInString(in.ClientName) > maxClientName:
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, fmt.Sprintf("client name must be at most %d characters", maxClientName))
	case utf8.RuneCountInString(in.ClientEmail) > maxClientEmail:
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, fmt.Sprintf("client email must be at most %d characters", maxClientEmail))
	case utf8.RuneCountInString(in.ClientPhone) > maxClientPhone:
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, fmt.Sprintf("client phone must be at most %d characters", maxClientPhone))
	case utf8.RuneCountInString(in.Notes) > maxNotes:
		return in, httperr.ErrBusinessMsg(httperr.CodeValidation, fmt.Sprintf("notes must be at most %d characters", maxNotes))
	}
	return in, nil
}

// getOrCreateClient returns the professional's client for the email,
// creating it on first booking. A concurrent insert of the same email is
// resolved by reading the winner's row.
func getOrCreateClient(
	ctx context.Context,
	tx domain.Repository,
	in AdmitInput,
) (*models.Client, error) {
	client, err := tx.FindClientByEmail(ctx, in.ProfessionalID, in.ClientEmail)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find client: %w", err)
	}

	email := in.ClientEmail
	client = &models.Client{
		ProfessionalID: in.ProfessionalID,
		Name:           in.ClientName,
		Email:          &email,
		Phone:          in.ClientPhone,
	}
	err = tx.CreateClient(ctx, client)
	if errors.Is(err, domain.ErrDuplicateClient) {
		client, err = tx.FindClientByEmail(ctx, in.ProfessionalID, in.ClientEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func businessName(pro *models.User) string {
	if pro.BusinessName != "" {
		return pro.BusinessName
	}
	return pro.Name
}
