package types

import "time"

// Prescription represents the clinical note a doctor attaches to an
// appointment. At most one prescription exists per appointment.
type Prescription struct {
	ID            string    `json:"id" db:"id"`
	AppointmentID string    `json:"appointment_id" db:"appointment_id"`
	Medication    string    `json:"medication" db:"medication"`
	Dosage        string    `json:"dosage" db:"dosage"`
	Notes         string    `json:"notes" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
