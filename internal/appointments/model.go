// Package appointments implements the appointment booking lifecycle:
// patient-initiated requests, administrative schedule/cancel transitions,
// and the status aggregation backing the admin dashboard.
package appointments

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// TransitionKind identifies which administrative action produced an update.
// It selects the notification text sent to the patient.
type TransitionKind string

const (
	TransitionSchedule TransitionKind = "schedule"
	TransitionCancel   TransitionKind = "cancel"
)

// Appointment is a booking record linking a patient, a physician and a
// schedule time. IDs and creation timestamps are assigned by the store.
type Appointment struct {
	ID                 string    `dynamodbav:"id" json:"id"`
	UserID             string    `dynamodbav:"userId" json:"userId"`
	PatientID          string    `dynamodbav:"patientId" json:"patientId"`
	Physician          string    `dynamodbav:"physician" json:"physician"`
	Schedule           time.Time `dynamodbav:"schedule" json:"schedule"`
	Reason             string    `dynamodbav:"reason" json:"reason"`
	Note               string    `dynamodbav:"note,omitempty" json:"note,omitempty"`
	Status             Status    `dynamodbav:"status" json:"status"`
	CancellationReason string    `dynamodbav:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          string    `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt          string    `dynamodbav:"updatedAt" json:"updatedAt"`
}

// createdAtTime parses the store-assigned creation timestamp, returning the
// zero time when it is missing or malformed.
func (a *Appointment) createdAtTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, a.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CountSummary holds derived status counts over the full appointment
// collection. It is recomputed on every query and never persisted.
type CountSummary struct {
	TotalCount     int `json:"totalCount"`
	ScheduledCount int `json:"scheduledCount"`
	PendingCount   int `json:"pendingCount"`
	CancelledCount int `json:"cancelledCount"`
}

// RecentAppointments is the admin dashboard payload: status counts plus the
// full document list ordered newest first.
type RecentAppointments struct {
	CountSummary
	Documents []Appointment `json:"documents"`
}
