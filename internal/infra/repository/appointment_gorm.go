package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// notFound maps gorm's miss to the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// validID filters ids postgres would reject as malformed uuids.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	professionalID string,
) (*models.User, error) {

	if !validID(professionalID) {
		return nil, domain.ErrNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", professionalID, models.RolePro).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *AppointmentGormRepository) LockProfessional(
	ctx context.Context,
	professionalID string,
) error {

	if !validID(professionalID) {
		return domain.ErrNotFound
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", professionalID).
		First(&user).Error
	return notFound(err)
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	professionalID string,
	serviceID string,
) (*models.Service, error) {

	if !validID(serviceID) {
		return nil, domain.ErrNotFound
	}

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", serviceID, professionalID).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	professionalID string,
	weekday int,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ? AND active = ?", professionalID, weekday, true).
		Order("start_time ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) FindClientByEmail(
	ctx context.Context,
	professionalID string,
	email string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND email = ?", professionalID, email).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// CreateClient inserts with ON CONFLICT DO NOTHING so that losing a race
// does not abort the surrounding transaction.
func (r *AppointmentGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professional_id"}, {Name: "email"}},
			DoNothing: true,
		}).
		Create(client)
	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return domain.ErrDuplicateClient
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDuplicateClient
	}
	return nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsBetween(
	ctx context.Context,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
			professionalID, string(domain.StatusCancelled), end, start,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
	if IsExclusionConflict(err) {
		return domain.ErrOverlap
	}
	return err
}

// --------------------------------------------------
// Appointment (lifecycle)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	professionalID string,
	appointmentID string,
) (*models.Appointment, error) {

	if !validID(appointmentID) {
		return nil, domain.ErrNotFound
	}

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND professional_id = ?", ap.ID, ap.ProfessionalID).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		if IsExclusionConflict(res.Error) {
			return domain.ErrOverlap
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	professionalID string,
	appointmentID string,
) error {

	if !validID(appointmentID) {
		return domain.ErrNotFound
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) CountAppointmentsByStatus(
	ctx context.Context,
	professionalID string,
	status domain.Status,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("professional_id = ? AND status = ?", professionalID, string(status)).
		Count(&count).Error
	return count, err
}

func (r *AppointmentGormRepository) MarkNotificationSent(
	ctx context.Context,
	professionalID string,
	appointmentID string,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		Update("notification_sent", true).Error
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"professional_id = ? AND start_at >= ? AND start_at < ?",
			professionalID,
			start,
			end,
		).
		Order("start_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
