// Package notifications delivers patient-facing text messages through a
// hosted SMS gateway.
package notifications

import (
	"context"

	"github.com/carepulse/booking-api/internal/appointments"
	"github.com/carepulse/booking-api/pkg/logging"
)

// RecipientResolver translates an opaque recipient identifier (a user ID)
// into a deliverable E.164 phone number. A nil resolver means identifiers are
// already phone numbers.
type RecipientResolver func(ctx context.Context, recipientID string) (string, error)

// StubSender logs instead of sending. Used in development and tests.
type StubSender struct {
	logger *logging.Logger
}

// NewStubSender creates a no-op text sender.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// SendText logs but doesn't send.
func (s *StubSender) SendText(ctx context.Context, recipients []string, body string) error {
	s.logger.Info("stub text sender: would send",
		"recipients", len(recipients),
		"body_preview", truncate(body, 50),
	)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Ensure interface compliance
var _ appointments.TextSender = (*StubSender)(nil)
var _ appointments.TextSender = (*TwilioGateway)(nil)
