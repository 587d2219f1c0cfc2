package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/pro-scheduler/internal/metrics"
	"github.com/BruksfildServices01/pro-scheduler/internal/storage"
)

// Job is one confirmation to deliver for a committed appointment.
type Job struct {
	ProfessionalID string
	AppointmentID  string
	Email          ConfirmationEmail
}

// Marker records a successful delivery on the appointment.
type Marker interface {
	MarkNotificationSent(ctx context.Context, professionalID, appointmentID string) error
}

// Dispatcher delivers confirmations off the request path. A full queue
// drops the job: a booking never fails because of mail.
type Dispatcher struct {
	sender  Sender
	marker  Marker
	store   storage.ObjectStore
	metrics *metrics.Metrics
	log     zerolog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Job
	wg     sync.WaitGroup
}

type Option func(*Dispatcher)

// WithInviteStore attaches an object store for .ics invites.
func WithInviteStore(store storage.ObjectStore) Option {
	return func(d *Dispatcher) { d.store = store }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(sender Sender, marker Marker, log zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		marker:  marker,
		log:     log.With().Str("component", "notification").Logger(),
		timeout: 30 * time.Second,
		queue:   make(chan Job, 100),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

// Dispatch is safe after Close: the job is dropped.
func (d *Dispatcher) Dispatch(job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.metrics.Notified("dropped")
		d.log.Warn().Str("appointment_id", job.AppointmentID).Msg("notification dispatcher closed, dropping confirmation")
		return
	}

	select {
	case d.queue <- job:
	default:
		d.metrics.Notified("dropped")
		d.log.Warn().Str("appointment_id", job.AppointmentID).Msg("notification queue full, dropping confirmation")
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.queue {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	log := d.log.With().
		Str("professional_id", job.ProfessionalID).
		Str("appointment_id", job.AppointmentID).
		Logger()

	email := job.Email
	if d.store != nil {
		invite := BuildInvite(job.AppointmentID, email, time.Now())
		url, err := d.store.Put(ctx, storage.InviteKey(job.ProfessionalID, job.AppointmentID), "text/calendar; charset=utf-8", invite)
		if err != nil {
			log.Warn().Err(err).Msg("calendar invite upload failed")
		} else {
			email.CalendarURL = url
		}
	}

	res := d.sender.SendConfirmation(ctx, email)
	if !res.Success {
		d.metrics.Notified("failed")
		log.Error().Err(res.Err).Msg("confirmation email failed")
		return
	}

	d.metrics.Notified("sent")
	if err := d.marker.MarkNotificationSent(ctx, job.ProfessionalID, job.AppointmentID); err != nil {
		log.Error().Err(err).Str("message_id", res.MessageID).Msg("mark notification sent failed")
		return
	}
	log.Info().Str("message_id", res.MessageID).Msg("confirmation email sent")
}
