package physicians

import (
	"encoding/json"
	"net/http"

	"github.com/carepulse/booking-api/pkg/logging"
)

// Handler serves the physician roster to the booking form.
type Handler struct {
	directory *Directory
	logger    *logging.Logger
}

// NewHandler creates a physicians HTTP handler.
func NewHandler(directory *Directory, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{directory: directory, logger: logger}
}

// ListPhysicians handles GET /physicians requests.
func (h *Handler) ListPhysicians(w http.ResponseWriter, r *http.Request) {
	roster, err := h.directory.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list physicians", "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"physicians": roster,
		"count":      len(roster),
	}); err != nil {
		h.logger.Error("failed to encode physicians", "error", err)
	}
}
