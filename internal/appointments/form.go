package appointments

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Mode discriminates which form variant a request represents.
type Mode string

const (
	ModeCreate   Mode = "create"
	ModeSchedule Mode = "schedule"
	ModeCancel   Mode = "cancel"
)

var validate = validator.New()

// FormRequest is the wire form for booking operations. Which fields are
// required depends on the mode: create and schedule need a physician, reason,
// note and schedule time; cancel needs only a cancellation reason.
type FormRequest struct {
	Mode               Mode      `json:"mode" validate:"required,oneof=create schedule cancel"`
	PatientID          string    `json:"patientId" validate:"required_if=Mode create"`
	Physician          string    `json:"physician" validate:"required_unless=Mode cancel"`
	Schedule           time.Time `json:"schedule" validate:"required_unless=Mode cancel"`
	Reason             string    `json:"reason" validate:"required_unless=Mode cancel"`
	Note               string    `json:"note"`
	CancellationReason string    `json:"cancellationReason" validate:"required_if=Mode cancel"`
}

// Validate checks the mode-dependent field requirements.
func (r *FormRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("appointments: invalid form: %w", err)
	}
	return nil
}

// TransitionKind maps the form mode onto the administrative transition it
// requests. Only schedule and cancel reach the update path.
func (r *FormRequest) TransitionKind() TransitionKind {
	if r.Mode == ModeSchedule {
		return TransitionSchedule
	}
	return TransitionCancel
}

// UpdateFields builds the partial document an update writes, deriving the
// stored status from the mode.
func (r *FormRequest) UpdateFields() UpdateFields {
	return UpdateFields{
		Physician:          r.Physician,
		Schedule:           r.Schedule,
		Status:             StatusForMode(r.Mode),
		CancellationReason: r.CancellationReason,
	}
}

// StatusForMode derives the target status for a form mode. Anything other
// than schedule or cancel falls back to pending.
func StatusForMode(m Mode) Status {
	switch m {
	case ModeSchedule:
		return StatusScheduled
	case ModeCancel:
		return StatusCancelled
	default:
		return StatusPending
	}
}
