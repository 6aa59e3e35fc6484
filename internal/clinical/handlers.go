package clinical

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Handler exposes the clinical service over HTTP
type Handler struct {
	service interfaces.PrescriptionService
	logger  *logger.Logger
}

// NewHandler creates a new clinical HTTP handler
func NewHandler(service interfaces.PrescriptionService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the clinical HTTP routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/prescriptions", h.savePrescriptionHandler).Methods("POST")
	api.HandleFunc("/appointments/{id}/prescription", h.getPrescriptionHandler).Methods("GET")

	h.logger.Info("Clinical routes configured")
}

// savePrescriptionHandler stores a prescription for an appointment
func (h *Handler) savePrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var prescription types.Prescription
	if err := json.NewDecoder(r.Body).Decode(&prescription); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	saved, err := h.service.Save(r.Context(), bearerToken(r), &prescription)
	if err != nil {
		h.writeClinicError(w, "Failed to save prescription", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, saved)
}

// getPrescriptionHandler returns the prescription for an appointment
func (h *Handler) getPrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	prescription, err := h.service.ByAppointment(r.Context(), bearerToken(r), vars["id"])
	if err != nil {
		h.writeClinicError(w, "Failed to get prescription", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, prescription)
}

// bearerToken extracts the raw token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// statusForError maps the error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch types.TypeOf(err) {
	case types.ErrorTypeValidation:
		return http.StatusBadRequest
	case types.ErrorTypeAuthentication, types.ErrorTypeAuthorization:
		return http.StatusUnauthorized
	case types.ErrorTypeNotFound:
		return http.StatusNotFound
	case types.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeClinicError(w http.ResponseWriter, message string, err error) {
	h.writeErrorResponse(w, statusForError(err), message, err)
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes an error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	h.logger.Errorf("%s: %v", message, err)

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	h.writeJSONResponse(w, statusCode, response)
}
