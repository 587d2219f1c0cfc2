package appointment

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/pro-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/httperr"
	"github.com/BruksfildServices01/pro-scheduler/internal/lock"
	"github.com/BruksfildServices01/pro-scheduler/internal/metrics"
	"github.com/BruksfildServices01/pro-scheduler/internal/notification"
)

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []notification.Job
}

func (n *recordingNotifier) Dispatch(job notification.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

type admitHarness struct {
	repo     *memRepo
	notifier *recordingNotifier
	auditor  *recordingAuditor
	uc       *AdmitBooking
}

func newAdmitHarness(locker lock.Locker) *admitHarness {
	repo := newMemRepo()
	repo.addPro("pro-a", "Ana")
	repo.addPro("pro-b", "Bruno")
	repo.addService("cut", "pro-a", 45, true)
	repo.addService("old", "pro-a", 30, false)
	repo.addService("other", "pro-b", 30, true)
	repo.addHours("pro-a", 1, "09:00", "12:00")
	repo.addHours("pro-a", 1, "14:00", "18:00")

	h := &admitHarness{
		repo:     repo,
		notifier: &recordingNotifier{},
		auditor:  &recordingAuditor{},
	}
	h.uc = NewAdmitBooking(repo, locker, h.notifier, h.auditor, metrics.New("test"), zerolog.New(io.Discard))
	return h
}

func publicInput(start time.Time) AdmitInput {
	return AdmitInput{
		ProfessionalID: "pro-a",
		ServiceID:      "cut",
		Start:          start,
		ClientName:     "Carla",
		ClientEmail:    "Carla@Example.com",
		ClientPhone:    "555-0100",
		Source:         domain.SourcePublic,
	}
}

func TestAdmitBooking_Success(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())

	ap, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	require.NoError(t, err)

	assert.Equal(t, on(monday, 9, 45), ap.EndAt)
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, "carla@example.com", ap.ClientEmail)
	assert.Equal(t, "Carla", ap.ClientName)
	require.NotNil(t, ap.ClientID)

	require.Len(t, h.notifier.jobs, 1)
	job := h.notifier.jobs[0]
	assert.Equal(t, ap.ID, job.AppointmentID)
	assert.Equal(t, "Ana Studio", job.Email.BusinessName)
	assert.Equal(t, "svc-cut", job.Email.ServiceName)

	require.Len(t, h.auditor.events, 1)
	assert.Equal(t, audit.ActionAppointmentCreated, h.auditor.events[0].Action)
}

func TestAdmitBooking_ManualIsConfirmedAndMayOmitEmail(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	in := publicInput(on(monday, 14, 0))
	in.Source = domain.SourceManual
	in.ClientEmail = ""

	ap, err := h.uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.Nil(t, ap.ClientID)
	assert.Empty(t, h.notifier.jobs)
}

func TestAdmitBooking_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AdmitInput)
		seed   func(*memRepo)
		code   string
	}{
		{"missing name", func(in *AdmitInput) { in.ClientName = "  " }, nil, httperr.CodeValidation},
		{"bad email", func(in *AdmitInput) { in.ClientEmail = "not-an-email" }, nil, httperr.CodeValidation},
		{"public without email", func(in *AdmitInput) { in.ClientEmail = "" }, nil, httperr.CodeValidation},
		{"zero start", func(in *AdmitInput) { in.Start = time.Time{} }, nil, httperr.CodeValidation},
		{"name too long", func(in *AdmitInput) { in.ClientName = strings.Repeat("a", 101) }, nil, httperr.CodeValidation},
		{"email too long", func(in *AdmitInput) { in.ClientEmail = strings.Repeat("a", 90) + "@example.com" }, nil, httperr.CodeValidation},
		{"phone too long", func(in *AdmitInput) { in.ClientPhone = strings.Repeat("9", 21) }, nil, httperr.CodeValidation},
		{"notes too long", func(in *AdmitInput) { in.Notes = strings.Repeat("n", 256) }, nil, httperr.CodeValidation},
		{"unknown service", func(in *AdmitInput) { in.ServiceID = "nope" }, nil, httperr.CodeServiceNotFound},
		{"inactive service", func(in *AdmitInput) { in.ServiceID = "old" }, nil, httperr.CodeServiceNotFound},
		{"foreign service", func(in *AdmitInput) { in.ServiceID = "other" }, nil, httperr.CodeServiceNotFound},
		{"closed day", func(in *AdmitInput) { in.Start = on(monday.AddDate(0, 0, 1), 10, 0) }, nil, httperr.CodeProfessionalClosed},
		{"runs past closing", func(in *AdmitInput) { in.Start = on(monday, 11, 30) }, nil, httperr.CodeOutsideWorkingHours},
		{"straddles lunch", func(in *AdmitInput) { in.Start = on(monday, 11, 45) }, nil, httperr.CodeOutsideWorkingHours},
		{"before opening", func(in *AdmitInput) { in.Start = on(monday, 8, 30) }, nil, httperr.CodeOutsideWorkingHours},
		{
			"overlaps booking",
			func(in *AdmitInput) { in.Start = on(monday, 9, 30) },
			func(r *memRepo) {
				r.addAppointment("pro-a", on(monday, 10, 0), on(monday, 10, 30), domain.StatusPending)
			},
			httperr.CodeSlotConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newAdmitHarness(lock.NewLocalLocker())
			if tc.seed != nil {
				tc.seed(h.repo)
			}
			before := h.repo.count("pro-a")

			in := publicInput(on(monday, 9, 0))
			tc.mutate(&in)
			_, err := h.uc.Execute(context.Background(), in)

			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
			assert.Equal(t, before, h.repo.count("pro-a"))
			assert.Empty(t, h.notifier.jobs)
		})
	}
}

func TestAdmitBooking_FieldsAtColumnWidthAreAccepted(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	in := publicInput(on(monday, 9, 0))
	in.ClientName = strings.Repeat("é", 100)
	in.ClientPhone = strings.Repeat("9", 20)
	in.Notes = strings.Repeat("n", 255)

	ap, err := h.uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Notes, ap.Notes)
}

func TestAdmitBooking_OutsideHoursListsIntervals(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())

	_, err := h.uc.Execute(context.Background(), publicInput(on(monday, 17, 30)))

	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeOutsideWorkingHours, be.Code)
	assert.Contains(t, be.Message, "09:00-12:00, 14:00-18:00")
}

func TestAdmitBooking_ClosedDaySkipsConflictQuery(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())

	_, err := h.uc.Execute(context.Background(), publicInput(on(monday.AddDate(0, 0, 1), 10, 0)))

	assert.True(t, httperr.IsBusiness(err, httperr.CodeProfessionalClosed))
	assert.Zero(t, h.repo.listCalls)
}

func TestAdmitBooking_BoundaryTouchingIsAccepted(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	h.repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusConfirmed)

	ap, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 45)))
	require.NoError(t, err)
	assert.Equal(t, on(monday, 10, 30), ap.EndAt)

	// Ends exactly at closing.
	_, err = h.uc.Execute(context.Background(), publicInput(on(monday, 11, 15)))
	assert.NoError(t, err)
}

func TestAdmitBooking_CancelledDoesNotBlock(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	h.repo.addAppointment("pro-a", on(monday, 9, 0), on(monday, 9, 45), domain.StatusCancelled)

	_, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	assert.NoError(t, err)
}

func TestAdmitBooking_OtherTenantDoesNotBlock(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	h.repo.addAppointment("pro-b", on(monday, 9, 0), on(monday, 9, 45), domain.StatusConfirmed)

	_, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	assert.NoError(t, err)
}

func TestAdmitBooking_ConcurrentSameSlot(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	h.repo.createDelay = 20 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = h.uc.Execute(context.Background(), publicInput(on(monday, 10, 0)))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsBusiness(err, httperr.CodeSlotConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, h.repo.count("pro-a"))
}

func TestAdmitBooking_StoreOverlapMapsToSlotConflict(t *testing.T) {
	h := newAdmitHarness(noopLocker{})
	h.repo.createDelay = 20 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.uc.Execute(context.Background(), publicInput(on(monday, 15, 0)))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, h.repo.count("pro-a"))
}

func TestAdmitBooking_ReusesClientByEmail(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())

	first, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	require.NoError(t, err)

	in := publicInput(on(monday, 14, 0))
	in.ClientName = "Carla M."
	in.ClientEmail = "carla@example.com"
	second, err := h.uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, *first.ClientID, *second.ClientID)
	assert.Len(t, h.repo.clients, 1)
	assert.Equal(t, "Carla M.", second.ClientName)
}

func TestAdmitBooking_DuplicateClientRaceRefetches(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	h.repo.clientRace = true

	ap, err := h.uc.Execute(context.Background(), publicInput(on(monday, 9, 0)))
	require.NoError(t, err)

	require.Len(t, h.repo.clients, 1)
	for id, c := range h.repo.clients {
		assert.Equal(t, id, *ap.ClientID)
		assert.Equal(t, "winner", c.Name)
	}
}

func TestAdmitBooking_UnknownProfessional(t *testing.T) {
	h := newAdmitHarness(lock.NewLocalLocker())
	in := publicInput(on(monday, 9, 0))
	in.ProfessionalID = "ghost"

	_, err := h.uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeValidation))
}
