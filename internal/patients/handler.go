package patients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carepulse/booking-api/pkg/logging"
)

var validate = validator.New()

// RegisterRequest is the wire form for patient registration. Consents are
// required; intake history fields are optional.
type RegisterRequest struct {
	Name                   string    `json:"name" validate:"required,min=2"`
	Email                  string    `json:"email" validate:"required,email"`
	Phone                  string    `json:"phone" validate:"required,e164"`
	BirthDate              time.Time `json:"birthDate" validate:"required"`
	Gender                 string    `json:"gender" validate:"omitempty,oneof=male female other"`
	Address                string    `json:"address"`
	Occupation             string    `json:"occupation"`
	EmergencyContactName   string    `json:"emergencyContactName"`
	EmergencyContactNumber string    `json:"emergencyContactNumber" validate:"omitempty,e164"`
	PrimaryPhysician       string    `json:"primaryPhysician"`
	InsuranceProvider      string    `json:"insuranceProvider"`
	InsurancePolicyNumber  string    `json:"insurancePolicyNumber"`
	Allergies              string    `json:"allergies"`
	CurrentMedication      string    `json:"currentMedication"`
	FamilyMedicalHistory   string    `json:"familyMedicalHistory"`
	PastMedicalHistory     string    `json:"pastMedicalHistory"`
	TreatmentConsent       bool      `json:"treatmentConsent" validate:"eq=true"`
	DisclosureConsent      bool      `json:"disclosureConsent"`
	PrivacyConsent         bool      `json:"privacyConsent" validate:"eq=true"`
}

// Handler handles HTTP requests for patients.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new patients handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterPatient handles POST /patients requests.
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode register request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid registration: %v", err), http.StatusBadRequest)
		return
	}

	patient := &Patient{
		Name:                   req.Name,
		Email:                  req.Email,
		Phone:                  req.Phone,
		BirthDate:              req.BirthDate,
		Gender:                 req.Gender,
		Address:                req.Address,
		Occupation:             req.Occupation,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		PrimaryPhysician:       req.PrimaryPhysician,
		InsuranceProvider:      req.InsuranceProvider,
		InsurancePolicyNumber:  req.InsurancePolicyNumber,
		Allergies:              req.Allergies,
		CurrentMedication:      req.CurrentMedication,
		FamilyMedicalHistory:   req.FamilyMedicalHistory,
		PastMedicalHistory:     req.PastMedicalHistory,
		TreatmentConsent:       req.TreatmentConsent,
		DisclosureConsent:      req.DisclosureConsent,
		PrivacyConsent:         req.PrivacyConsent,
	}

	stored, err := h.store.Create(r.Context(), patient)
	if err != nil {
		h.logger.Error("failed to register patient", "error", err)
		http.Error(w, "failed to register patient", http.StatusInternalServerError)
		return
	}

	h.logger.Info("patient registered", "id", stored.ID, "user_id", stored.UserID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(stored)
}

// GetPatient handles GET /patients/{patientID} requests.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patient id", http.StatusBadRequest)
		return
	}

	patient, err := h.store.Get(r.Context(), patientID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get patient", "error", err, "patient_id", patientID)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}
