package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/booking-api/pkg/logging"
)

type physicianChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc        *Service
	agg        *Aggregator
	physicians physicianChecker
	logger     *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(svc *Service, agg *Aggregator, physicians physicianChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:        svc,
		agg:        agg,
		physicians: physicians,
		logger:     logger,
	}
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// CreateAppointment handles POST /patients/{userID}/appointments requests.
// The route fixes the mode: the body is always treated as a create form.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	var form FormRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.logger.Error("failed to decode appointment form", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	form.Mode = ModeCreate
	if err := form.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	known, err := h.physicians.Exists(r.Context(), form.Physician)
	if err != nil {
		h.logger.Error("physician lookup failed", "error", err)
		http.Error(w, "failed to verify physician", http.StatusInternalServerError)
		return
	}
	if !known {
		http.Error(w, "unknown physician", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Create(r.Context(), CreateParams{
		UserID:    userID,
		PatientID: form.PatientID,
		Physician: form.Physician,
		Schedule:  form.Schedule,
		Reason:    form.Reason,
		Note:      form.Note,
	})
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err, "user_id", userID)
		http.Error(w, "failed to create appointment", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// GetAppointment handles GET /appointments/{appointmentID} requests, serving
// the booking success view.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Get(r.Context(), appointmentID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get appointment", "error", err, "appointment_id", appointmentID)
		http.Error(w, "failed to get appointment", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// UpdateAppointment handles PATCH /admin/appointments/{appointmentID}
// requests carrying a schedule or cancel form.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if appointmentID == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}

	var form FormRequest
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.logger.Error("failed to decode appointment form", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if form.Mode == ModeCreate {
		http.Error(w, "create is not a valid transition", http.StatusBadRequest)
		return
	}
	if err := form.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Update(r.Context(), UpdateParams{
		UserID:        userID,
		AppointmentID: appointmentID,
		Fields:        form.UpdateFields(),
		Kind:          form.TransitionKind(),
	})
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to update appointment", "error", err, "appointment_id", appointmentID)
		http.Error(w, "failed to update appointment", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// ListRecent handles GET /admin/appointments requests, returning status
// counts plus the full appointment list for the dashboard.
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.agg.Recent(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recent); err != nil {
		h.logger.Error("failed to encode appointments", "error", err)
	}
}
