package iam

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Handler exposes the identity service over HTTP
type Handler struct {
	service interfaces.IdentityService
	logger  *logger.Logger
}

// NewHandler creates a new identity HTTP handler
func NewHandler(service interfaces.IdentityService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the identity HTTP routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/login/admin", h.loginAdminHandler).Methods("POST")
	api.HandleFunc("/login/doctor", h.loginDoctorHandler).Methods("POST")
	api.HandleFunc("/login/patient", h.loginPatientHandler).Methods("POST")
	api.HandleFunc("/patients", h.registerPatientHandler).Methods("POST")

	h.logger.Info("Identity routes configured")
}

func (h *Handler) loginAdminHandler(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.LoginAdmin(r.Context(), creds.Identifier, creds.Password)
	if err != nil {
		h.writeClinicError(w, "Login failed", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, token)
}

func (h *Handler) loginDoctorHandler(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.LoginDoctor(r.Context(), creds.Identifier, creds.Password)
	if err != nil {
		h.writeClinicError(w, "Login failed", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, token)
}

func (h *Handler) loginPatientHandler(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.LoginPatient(r.Context(), creds.Identifier, creds.Password)
	if err != nil {
		h.writeClinicError(w, "Login failed", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, token)
}

// registerPatientHandler creates a new patient account
func (h *Handler) registerPatientHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		types.Patient
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patient, err := h.service.RegisterPatient(r.Context(), &request.Patient, request.Password)
	if err != nil {
		h.writeClinicError(w, "Failed to register patient", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, patient)
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (*types.Credentials, bool) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	return &creds, true
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
