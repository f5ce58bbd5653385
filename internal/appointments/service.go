package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/carepulse/booking-api/internal/observability/metrics"
	"github.com/carepulse/booking-api/pkg/logging"
)

// smsTimeLayout renders the schedule time in confirmation messages.
const smsTimeLayout = "January 2, 2006 at 3:04 PM"

// TextSender delivers a text message to a set of recipient identifiers.
type TextSender interface {
	SendText(ctx context.Context, recipients []string, body string) error
}

type appointmentStore interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error)
}

// CreateParams carries a patient-initiated booking request.
type CreateParams struct {
	UserID    string
	PatientID string
	Physician string
	Schedule  time.Time
	Reason    string
	Note      string
}

// UpdateParams carries an administrative transition request.
type UpdateParams struct {
	UserID        string
	AppointmentID string
	Fields        UpdateFields
	Kind          TransitionKind
}

// Service coordinates appointment persistence and patient notifications.
type Service struct {
	store   appointmentStore
	sms     TextSender
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewService creates the lifecycle service. The metrics collector may be nil.
func NewService(store appointmentStore, sms TextSender, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if sms == nil {
		panic("appointments: text sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		sms:     sms,
		metrics: m,
		logger:  logger,
	}
}

// Create persists a new appointment request. The stored status is always
// pending regardless of anything the caller supplied; scheduling happens
// only through an explicit administrative transition.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Appointment, error) {
	appt := &Appointment{
		UserID:    p.UserID,
		PatientID: p.PatientID,
		Physician: p.Physician,
		Schedule:  p.Schedule,
		Reason:    p.Reason,
		Note:      p.Note,
		Status:    StatusPending,
	}

	stored, err := s.store.Create(ctx, appt)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCreated()
	s.logger.Info("appointment created",
		"appointment_id", stored.ID,
		"patient_id", stored.PatientID,
		"physician", stored.Physician,
	)
	return stored, nil
}

// Get fetches a single appointment. Used by the booking success view.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.store.Get(ctx, id)
}

// Update applies an administrative transition and dispatches exactly one SMS
// to the owning user on success. SMS delivery is best effort: a gateway
// failure is logged and counted but never rolls back the persisted update.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*Appointment, error) {
	updated, err := s.store.Update(ctx, p.AppointmentID, p.Fields)
	if err != nil {
		s.metrics.ObserveTransition(string(p.Kind), "error")
		return nil, err
	}
	s.metrics.ObserveTransition(string(p.Kind), "ok")

	body := notificationBody(p.Kind, updated)
	if err := s.sms.SendText(ctx, []string{p.UserID}, body); err != nil {
		s.metrics.ObserveNotification("error")
		s.logger.Error("appointment notification failed",
			"error", err,
			"appointment_id", updated.ID,
			"user_id", p.UserID,
			"kind", string(p.Kind),
		)
	} else {
		s.metrics.ObserveNotification("sent")
	}

	s.logger.Info("appointment updated",
		"appointment_id", updated.ID,
		"status", string(updated.Status),
		"kind", string(p.Kind),
	)
	return updated, nil
}

// notificationBody selects the message text by transition kind: schedule
// confirmations name the formatted date/time and physician, every other kind
// carries the stored cancellation reason verbatim.
func notificationBody(kind TransitionKind, appt *Appointment) string {
	if kind == TransitionSchedule {
		return fmt.Sprintf(
			"Hi, it's CarePulse. Your appointment has been scheduled for %s with Dr. %s.",
			appt.Schedule.Format(smsTimeLayout), appt.Physician,
		)
	}
	return fmt.Sprintf(
		"Hi, it's CarePulse. We regret to inform you that your appointment has been cancelled for the following reason: %s",
		appt.CancellationReason,
	)
}
