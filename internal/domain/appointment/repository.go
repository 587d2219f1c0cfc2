package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

var (
	// ErrNotFound is returned when a scoped lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned by CreateAppointment when the store itself
	// rejects an overlapping interval.
	ErrOverlap = errors.New("appointment overlaps an existing one")
	// ErrDuplicateClient is returned by CreateClient when the
	// (professional, email) pair already exists.
	ErrDuplicateClient = errors.New("client already exists")
)

type Repository interface {
	// -------- Professional --------
	GetProfessional(
		ctx context.Context,
		professionalID string,
	) (*models.User, error)

	// LockProfessional serialises admissions for one professional until the
	// surrounding transaction ends.
	LockProfessional(
		ctx context.Context,
		professionalID string,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		professionalID string,
		serviceID string,
	) (*models.Service, error)

	// -------- Working hours --------
	WorkingHoursReader

	// -------- Client --------
	FindClientByEmail(
		ctx context.Context,
		professionalID string,
		email string,
	) (*models.Client, error)

	CreateClient(
		ctx context.Context,
		client *models.Client,
	) error

	// -------- Appointment (create / conflict) --------
	AppointmentReader

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (lifecycle) --------
	GetAppointment(
		ctx context.Context,
		professionalID string,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		professionalID string,
		appointmentID string,
	) error

	CountAppointmentsByStatus(
		ctx context.Context,
		professionalID string,
		status Status,
	) (int64, error)

	MarkNotificationSent(
		ctx context.Context,
		professionalID string,
		appointmentID string,
	) error

	// -------- Calendar --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		professionalID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// WithinTransaction runs fn against a repository bound to one
	// transaction; fn's error rolls it back.
	WithinTransaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
