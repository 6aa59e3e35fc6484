package types

import (
	"strings"
	"time"
)

// Appointment represents a booked appointment between a patient and a doctor
type Appointment struct {
	ID              string            `json:"id" db:"id"`
	DoctorID        string            `json:"doctor_id" db:"doctor_id"`
	PatientID       string            `json:"patient_id" db:"patient_id"`
	AppointmentTime time.Time         `json:"appointment_time" db:"appointment_time"`
	Status          AppointmentStatus `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// Slot returns the time-of-day component of the appointment as a
// zero-padded "HH:MM" string. Lexicographic order on these strings
// equals chronological order within a day; the availability logic
// relies on that.
func (a *Appointment) Slot() string {
	return a.AppointmentTime.Format(SlotLayout)
}

// SlotLayout is the time-of-day format shared by slot templates and
// booked appointments.
const SlotLayout = "15:04"

// AppointmentStatus represents appointment lifecycle states
type AppointmentStatus string

const (
	StatusRequested  AppointmentStatus = "requested"
	StatusPrescribed AppointmentStatus = "prescribed"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCanceled   AppointmentStatus = "canceled"
)

// ParseAppointmentStatus parses a status string into the closed
// enumeration. Unrecognized input is a validation error, never a
// silent default.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusRequested:
		return StatusRequested, nil
	case StatusPrescribed:
		return StatusPrescribed, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCanceled:
		return StatusCanceled, nil
	default:
		return "", NewValidationError(ErrCodeInvalidInput, "unknown appointment status: "+s, nil)
	}
}

// AppointmentUpdate carries the fields a patient may overwrite on an
// existing appointment.
type AppointmentUpdate struct {
	ID              string            `json:"id"`
	AppointmentTime time.Time         `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
}

// TemporalCondition selects appointments relative to the current time
type TemporalCondition string

const (
	ConditionPast   TemporalCondition = "past"
	ConditionFuture TemporalCondition = "future"
)

// ParseTemporalCondition parses a past/future filter value.
func ParseTemporalCondition(s string) (TemporalCondition, error) {
	switch TemporalCondition(strings.ToLower(strings.TrimSpace(s))) {
	case ConditionPast:
		return ConditionPast, nil
	case ConditionFuture:
		return ConditionFuture, nil
	default:
		return "", NewValidationError(ErrCodeInvalidInput, "unknown temporal condition: "+s, nil)
	}
}

// AppointmentProjection is the read-model row returned by the query
// engine: the appointment joined with the display names the dashboards
// need.
type AppointmentProjection struct {
	ID              string            `json:"id"`
	DoctorID        string            `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name"`
	PatientID       string            `json:"patient_id"`
	PatientName     string            `json:"patient_name"`
	AppointmentTime time.Time         `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
}
