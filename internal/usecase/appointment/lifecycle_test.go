package appointment

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/lock"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

var (
	proA       = identity.Principal{UserID: "pro-a", Role: models.RolePro}
	proB       = identity.Principal{UserID: "pro-b", Role: models.RolePro}
	clientUser = identity.Principal{UserID: "cust-1", Role: models.RoleClient}
)

func TestSetAppointmentStatus(t *testing.T) {
	repo := availabilityFixture()
	id := repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusPending)
	auditor := &recordingAuditor{}
	uc := NewSetAppointmentStatus(repo, auditor, zerolog.New(io.Discard), time.UTC)

	ap, err := uc.Execute(context.Background(), proA, id, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", ap.Status)

	ap, err = uc.Execute(context.Background(), proA, id, "CANCELLED")
	require.NoError(t, err)
	assert.NotNil(t, ap.CancelledAt)

	stored, _ := repo.GetAppointment(context.Background(), "pro-a", id)
	assert.Equal(t, "CANCELLED", stored.Status)
	assert.Len(t, auditor.events, 2)
}

func TestSetAppointmentStatus_Scoping(t *testing.T) {
	repo := availabilityFixture()
	id := repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusPending)
	uc := NewSetAppointmentStatus(repo, nil, zerolog.New(io.Discard), time.UTC)

	_, err := uc.Execute(context.Background(), proB, id, "CANCELLED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	_, err = uc.Execute(context.Background(), clientUser, id, "CANCELLED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))

	_, err = uc.Execute(context.Background(), proA, id, "ARCHIVED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))

	stored, _ := repo.GetAppointment(context.Background(), "pro-a", id)
	assert.Equal(t, "PENDING", stored.Status)
}

func TestSetAppointmentStatus_RevivalRespectsOverlap(t *testing.T) {
	repo := availabilityFixture()
	cancelled := repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusCancelled)
	repo.addAppointment("pro-a", on(monday, 9, 30), on(monday, 10, 0), domain.StatusConfirmed)
	uc := NewSetAppointmentStatus(repo, nil, zerolog.New(io.Discard), time.UTC)

	_, err := uc.Execute(context.Background(), proA, cancelled, "CONFIRMED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict))
}

func TestCancelFreesSlot(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	ap, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	require.NoError(t, err)

	_, err = h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	require.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict))

	setStatus := NewSetAppointmentStatus(h.repo, nil, zerolog.New(io.Discard), time.UTC)
	_, err = setStatus.Execute(context.Background(), proA, ap.ID, "CANCELLED")
	require.NoError(t, err)

	_, err = h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	assert.NoError(t, err)
}

func TestDeleteAppointment(t *testing.T) {
	repo := availabilityFixture()
	id := repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusPending)
	uc := NewDeleteAppointment(repo, &recordingAuditor{})

	err := uc.Execute(context.Background(), proB, id)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
	assert.Equal(t, 1, repo.count("pro-a"))

	require.NoError(t, uc.Execute(context.Background(), proA, id))
	assert.Zero(t, repo.count("pro-a"))

	err = uc.Execute(context.Background(), proA, id)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))
}

func TestCountPendingAppointments(t *testing.T) {
	repo := availabilityFixture()
	repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 30), domain.StatusPending)
	repo.addAppointment("pro-a", on(monday, 10, 0), on(monday, 10, 30), domain.StatusPending)
	repo.addAppointment("pro-a", on(monday, 11, 0), on(monday, 11, 30), domain.StatusConfirmed)
	repo.addAppointment("pro-b", on(monday, 9, 0), on(monday, 9, 30), domain.StatusPending)
	uc := NewCountPendingAppointments(repo)

	n, err := uc.Execute(context.Background(), proA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = uc.Execute(context.Background(), clientUser)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
}

func TestListAppointments(t *testing.T) {
	repo := availabilityFixture()
	repo.addAppointment("pro-a", on(monday, 11, 0), on(monday, 11, 30), domain.StatusCancelled)
	repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 30), domain.StatusPending)
	repo.addAppointment("pro-a", on(monday.AddDate(0, 0, 1), 9, 0), on(monday.AddDate(0, 0, 1), 9, 30), domain.StatusPending)
	repo.addAppointment("pro-b", on(monday, 9, 0), on(monday, 9, 30), domain.StatusPending)

	day, err := NewListAppointmentsByDate(repo).Execute(context.Background(), proA, monday)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, on(monday, 9, 0), day[0].StartAt)

	month, err := NewListAppointmentsByMonth(repo, time.UTC).Execute(context.Background(), proA, 2026, 3)
	require.NoError(t, err)
	assert.Len(t, month, 3)

	_, err = NewListAppointmentsByMonth(repo, time.UTC).Execute(context.Background(), proA, 2026, 13)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}

func TestCreatePublicAppointment(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	uc := NewCreatePublicAppointment(h.uc, time.UTC)
	customer := "cust-1"

	res, err := uc.Execute(context.Background(), PublicBookingInput{
		ProfessionalID: "pro-a", ServiceID: "cut", Date: "2026-03-02", Time: "09:00",
		Name: "Carla", Email: "carla@example.com", CustomerID: &customer,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "PENDING", res.Appointment.Status)
	assert.Equal(t, &customer, res.Appointment.CustomerID)

	res, err = uc.Execute(context.Background(), PublicBookingInput{
		ProfessionalID: "pro-a", ServiceID: "cut", Date: "2026-03-02", Time: "09:30",
		Name: "Dora", Email: "dora@example.com",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, httperr.CodeSlotConflict, res.Code)
	assert.NotEmpty(t, res.Error)

	res, err = uc.Execute(context.Background(), PublicBookingInput{
		ProfessionalID: "pro-a", ServiceID: "cut", Date: "02/03/2026", Time: "09:30",
		Name: "Dora", Email: "dora@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, httperr.CodeValidation, res.Code)
}

func TestCreateManualAppointment(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	uc := NewCreateManualAppointment(h.uc, time.UTC)

	ap, err := uc.Execute(context.Background(), proA, ManualBookingInput{
		ServiceID: "cut", StartAt: "2026-03-02T14:00", ClientName: "Walk-in",
	})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", ap.Status)

	_, err = uc.Execute(context.Background(), clientUser, ManualBookingInput{
		ServiceID: "cut", StartAt: "2026-03-02T15:00", ClientName: "Walk-in",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))

	_, err = uc.Execute(context.Background(), proA, ManualBookingInput{
		ServiceID: "cut", StartAt: "2026-03-02T14:30", ClientName: "Second",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict))

	_, err = uc.Execute(context.Background(), proB, ManualBookingInput{
		ServiceID: "cut", StartAt: "2026-03-02T14:00", ClientName: "Walk-in",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))
}
