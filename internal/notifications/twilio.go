package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carepulse/booking-api/pkg/logging"
)

var twilioTracer = otel.Tracer("carepulse.internal.notifications.twilio")

// TwilioGateway posts SMS messages using Twilio's REST API. Each recipient
// identifier is resolved to a phone number before dispatch.
type TwilioGateway struct {
	accountSID string
	authToken  string
	from       string
	resolve    RecipientResolver
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioGateway builds a gateway with sane defaults.
func NewTwilioGateway(accountSID, authToken, from string, resolve RecipientResolver, logger *logging.Logger) *TwilioGateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioGateway{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		resolve:    resolve,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SendText dispatches one SMS per recipient, retrying transient failures.
// Delivery is best effort: recipients that fail do not block the rest.
func (g *TwilioGateway) SendText(ctx context.Context, recipients []string, body string) error {
	if g.accountSID == "" || g.authToken == "" {
		return errors.New("notifications: twilio credentials missing")
	}
	if g.from == "" {
		return errors.New("notifications: from number required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("notifications: body required")
	}
	if len(recipients) == 0 {
		return errors.New("notifications: at least one recipient required")
	}

	ctx, span := twilioTracer.Start(ctx, "notifications.twilio.send")
	defer span.End()
	span.SetAttributes(attribute.Int("carepulse.recipients", len(recipients)))

	var failed int
	var lastErr error
	for _, recipient := range recipients {
		to := recipient
		if g.resolve != nil {
			resolved, err := g.resolve(ctx, recipient)
			if err != nil {
				g.logger.Error("recipient resolution failed", "error", err, "recipient", recipient)
				failed++
				lastErr = err
				continue
			}
			to = resolved
		}
		if err := g.sendOne(ctx, to, body); err != nil {
			g.logger.Error("twilio send failed", "error", err, "to", to)
			failed++
			lastErr = err
			continue
		}
		g.logger.Info("twilio sms sent", "to", to)
	}

	if failed > 0 {
		span.RecordError(lastErr)
		return fmt.Errorf("notifications: %d of %d sends failed: %w", failed, len(recipients), lastErr)
	}
	return nil
}

func (g *TwilioGateway) sendOne(ctx context.Context, to, body string) error {
	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", g.from)
	payload.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", g.accountSID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			return err
		}
		req.SetBasicAuth(g.accountSID, g.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("twilio send failed: %s", formatTwilioError(resp.StatusCode, respBody))
			// Don't retry non-rate-limit 4xx errors.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429 {
				return lastErr
			}
		}

		if attempt < 3 {
			sleep := time.Duration(200+rand.Intn(300)) * time.Millisecond
			time.Sleep(sleep)
		}
	}
	return lastErr
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, string(body))
}
