package scheduling

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Handler exposes the scheduling service over HTTP
type Handler struct {
	service interfaces.SchedulingService
	logger  *logger.Logger
}

// NewHandler creates a new scheduling HTTP handler
func NewHandler(service interfaces.SchedulingService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures the scheduling HTTP routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Doctor directory
	api.HandleFunc("/doctors", h.filterDoctorsHandler).Methods("GET")
	api.HandleFunc("/doctors", h.saveDoctorHandler).Methods("POST")
	api.HandleFunc("/doctors/{id}", h.deleteDoctorHandler).Methods("DELETE")
	api.HandleFunc("/doctors/{id}/availability", h.availableSlotsHandler).Methods("GET")

	// Appointment ledger
	api.HandleFunc("/appointments", h.bookAppointmentHandler).Methods("POST")
	api.HandleFunc("/appointments", h.doctorAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments", h.updateAppointmentHandler).Methods("PUT")
	api.HandleFunc("/appointments/{id}", h.cancelAppointmentHandler).Methods("DELETE")

	// Patient views
	api.HandleFunc("/patients/me/appointments", h.patientAppointmentsHandler).Methods("GET")

	h.logger.Info("Scheduling routes configured")
}

// availableSlotsHandler returns the open slots for a doctor on a date
func (h *Handler) availableSlotsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID := vars["id"]

	date := r.URL.Query().Get("date")
	if date == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Date parameter is required", nil)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), bearerToken(r), doctorID, date)
	if err != nil {
		h.writeClinicError(w, "Failed to get available slots", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"doctor_id":       doctorID,
		"date":            date,
		"available_slots": slots,
	})
}

// bookAppointmentHandler creates an appointment for the authenticated patient
func (h *Handler) bookAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var apt types.Appointment
	if err := json.NewDecoder(r.Body).Decode(&apt); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	booked, err := h.service.Book(r.Context(), bearerToken(r), &apt)
	if err != nil {
		h.writeClinicError(w, "Failed to book appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, booked)
}

// updateAppointmentHandler overwrites the time and status of an appointment
func (h *Handler) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var upd types.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.Update(r.Context(), bearerToken(r), &upd); err != nil {
		h.writeClinicError(w, "Failed to update appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment updated successfully"})
}

// cancelAppointmentHandler deletes an appointment owned by the caller
func (h *Handler) cancelAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.Cancel(r.Context(), bearerToken(r), vars["id"]); err != nil {
		h.writeClinicError(w, "Failed to cancel appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment canceled successfully"})
}

// doctorAppointmentsHandler returns the authenticated doctor's day view
func (h *Handler) doctorAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Date parameter is required", nil)
		return
	}
	patientName := r.URL.Query().Get("patientName")

	appointments, err := h.service.AppointmentsForDoctor(r.Context(), bearerToken(r), date, patientName)
	if err != nil {
		h.writeClinicError(w, "Failed to get appointments", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, appointments)
}

// patientAppointmentsHandler returns the authenticated patient's
// appointments. A status query takes precedence over the temporal
// condition filter.
func (h *Handler) patientAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		appointments, err := h.service.AppointmentsForPatientByStatus(r.Context(), bearerToken(r), types.AppointmentStatus(status))
		if err != nil {
			h.writeClinicError(w, "Failed to get appointments", err)
			return
		}
		h.writeJSONResponse(w, http.StatusOK, appointments)
		return
	}

	appointments, err := h.service.AppointmentsForPatient(r.Context(), bearerToken(r), query.Get("condition"), query.Get("doctorName"))
	if err != nil {
		h.writeClinicError(w, "Failed to get appointments", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, appointments)
}

// filterDoctorsHandler is the public doctor directory listing
func (h *Handler) filterDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := &types.DoctorFilters{
		Name:      query.Get("name"),
		Specialty: query.Get("specialty"),
		Bucket:    types.TimeBucket(query.Get("time")),
	}

	doctors, err := h.service.FilterDoctors(r.Context(), filters)
	if err != nil {
		h.writeClinicError(w, "Failed to filter doctors", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, doctors)
}

// saveDoctorHandler creates a doctor record. Admin only.
func (h *Handler) saveDoctorHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		types.Doctor
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doctor, err := h.service.SaveDoctor(r.Context(), bearerToken(r), &request.Doctor, request.Password)
	if err != nil {
		h.writeClinicError(w, "Failed to create doctor", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, doctor)
}

// deleteDoctorHandler removes a doctor and its appointments. Admin only.
func (h *Handler) deleteDoctorHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteDoctor(r.Context(), bearerToken(r), vars["id"]); err != nil {
		h.writeClinicError(w, "Failed to delete doctor", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Doctor deleted successfully"})
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

// writeClinicError maps a service error to its HTTP status
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
