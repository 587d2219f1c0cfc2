package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/pro-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/pro-scheduler/internal/models"
)

// memRepo is an in-memory domain.Repository. It enforces the same
// per-professional overlap rule the database constraint does.
type memRepo struct {
	mu sync.Mutex

	users        map[string]models.User
	services     map[string]models.Service
	hours        []models.WorkingHours
	clients      map[string]models.Client
	appointments map[string]models.Appointment

	// listCalls counts ListActiveAppointmentsBetween calls.
	listCalls int
	// clientRace makes CreateClient lose against a concurrent insert.
	clientRace bool
	// createDelay widens the check-then-act window.
	createDelay time.Duration
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:        map[string]models.User{},
		services:     map[string]models.Service{},
		clients:      map[string]models.Client{},
		appointments: map[string]models.Appointment{},
	}
}

func (r *memRepo) addPro(id, name string) {
	u := models.User{Name: name, Email: id + "@pros.test", Role: models.RolePro, BusinessName: name + " Studio"}
	u.ID = id
	r.users[id] = u
}

func (r *memRepo) addService(id, pro string, duration int, active bool) {
	s := models.Service{ProfessionalID: pro, Name: "svc-" + id, DurationMin: duration, Active: active}
	s.ID = id
	r.services[id] = s
}

func (r *memRepo) addHours(pro string, weekday int, start, end string) {
	wh := models.WorkingHours{ProfessionalID: pro, Weekday: weekday, StartTime: start, EndTime: end, Active: true}
	wh.ID = uuid.NewString()
	r.hours = append(r.hours, wh)
}

func (r *memRepo) addAppointment(pro string, start, end time.Time, status domain.Status) string {
	ap := models.Appointment{ProfessionalID: pro, StartAt: start, EndAt: end, Status: string(status), ClientName: "seed"}
	ap.ID = uuid.NewString()
	r.appointments[ap.ID] = ap
	return ap.ID
}

func (r *memRepo) count(pro string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ap := range r.appointments {
		if ap.ProfessionalID == pro {
			n++
		}
	}
	return n
}

func (r *memRepo) GetProfessional(_ context.Context, professionalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[professionalID]
	if !ok || !u.IsPro() {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memRepo) LockProfessional(ctx context.Context, professionalID string) error {
	_, err := r.GetProfessional(ctx, professionalID)
	return err
}

func (r *memRepo) GetService(_ context.Context, professionalID, serviceID string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok || s.ProfessionalID != professionalID {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memRepo) ListWorkingHours(_ context.Context, professionalID string, weekday int) ([]models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WorkingHours
	for _, wh := range r.hours {
		if wh.ProfessionalID == professionalID && wh.Weekday == weekday {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (r *memRepo) FindClientByEmail(_ context.Context, professionalID, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ProfessionalID == professionalID && c.Email != nil && *c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) CreateClient(_ context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clientRace {
		winner := models.Client{ProfessionalID: client.ProfessionalID, Name: "winner", Email: client.Email}
		winner.ID = uuid.NewString()
		r.clients[winner.ID] = winner
		r.clientRace = false
	}
	for _, c := range r.clients {
		if c.ProfessionalID == client.ProfessionalID && c.Email != nil && client.Email != nil && *c.Email == *client.Email {
			return domain.ErrDuplicateClient
		}
	}
	client.ID = uuid.NewString()
	r.clients[client.ID] = *client
	return nil
}

func (r *memRepo) ListActiveAppointmentsBetween(_ context.Context, professionalID string, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID &&
			domain.Status(ap.Status).Blocking() &&
			domain.Overlaps(ap.StartAt, ap.EndAt, start, end) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memRepo) overlapsLocked(ap models.Appointment) bool {
	for id, other := range r.appointments {
		if id == ap.ID || other.ProfessionalID != ap.ProfessionalID {
			continue
		}
		if domain.Status(other.Status).Blocking() && domain.Overlaps(other.StartAt, other.EndAt, ap.StartAt, ap.EndAt) {
			return true
		}
	}
	return false
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.createDelay > 0 {
		time.Sleep(r.createDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if domain.Status(ap.Status).Blocking() && r.overlapsLocked(*ap) {
		return domain.ErrOverlap
	}
	ap.ID = uuid.NewString()
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, professionalID, appointmentID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.ProfessionalID != professionalID {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *memRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.ProfessionalID != ap.ProfessionalID {
		return domain.ErrNotFound
	}
	if domain.Status(ap.Status).Blocking() && r.overlapsLocked(*ap) {
		return domain.ErrOverlap
	}
	cur.Status = ap.Status
	cur.CancelledAt = ap.CancelledAt
	cur.CompletedAt = ap.CompletedAt
	r.appointments[ap.ID] = cur
	return nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, professionalID, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.ProfessionalID != professionalID {
		return domain.ErrNotFound
	}
	delete(r.appointments, appointmentID)
	return nil
}

func (r *memRepo) CountAppointmentsByStatus(_ context.Context, professionalID string, status domain.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID && ap.Status == string(status) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) MarkNotificationSent(_ context.Context, professionalID, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.ProfessionalID != professionalID {
		return domain.ErrNotFound
	}
	ap.NotificationSent = true
	r.appointments[appointmentID] = ap
	return nil
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, professionalID string, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID && !ap.StartAt.Before(start) && ap.StartAt.Before(end) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *memRepo) WithinTransaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

// noopLocker lets tests reach the store-level overlap check.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }
