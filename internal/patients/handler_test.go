package patients

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/booking-api/pkg/logging"
)

func newTestRouter(mock *mockDynamo) http.Handler {
	h := NewHandler(NewStore(mock, "patients", logging.Default()), logging.Default())
	r := chi.NewRouter()
	r.Post("/patients", h.RegisterPatient)
	r.Get("/patients/{patientID}", h.GetPatient)
	return r
}

func validRegistration() map[string]any {
	return map[string]any{
		"name":             "Adrian Hajdin",
		"email":            "adrian@example.com",
		"phone":            "+15550001111",
		"birthDate":        "1995-05-16T00:00:00Z",
		"gender":           "male",
		"treatmentConsent": true,
		"privacyConsent":   true,
	}
}

func TestHandler_RegisterPatient(t *testing.T) {
	mock := &mockDynamo{}
	router := newTestRouter(mock)

	body, _ := json.Marshal(validRegistration())
	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var patient Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &patient); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if patient.ID == "" || patient.UserID == "" {
		t.Fatalf("expected assigned identifiers, got %#v", patient)
	}
}

func TestHandler_RegisterPatientRejectsMissingConsent(t *testing.T) {
	router := newTestRouter(&mockDynamo{})

	payload := validRegistration()
	payload["treatmentConsent"] = false
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_RegisterPatientRejectsBadPhone(t *testing.T) {
	router := newTestRouter(&mockDynamo{})

	payload := validRegistration()
	payload["phone"] = "555-0011"
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetPatientNotFound(t *testing.T) {
	router := newTestRouter(&mockDynamo{})

	req := httptest.NewRequest(http.MethodGet, "/patients/absent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
