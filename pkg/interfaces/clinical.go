package interfaces

import (
	"context"

	"github.com/clinichq/clinic-backend/pkg/types"
)

// PrescriptionService owns prescription records and the status
// transition they trigger on the owning appointment.
type PrescriptionService interface {
	// Save stores a prescription and flips the appointment to
	// prescribed. A second save for the same appointment is a
	// conflict.
	Save(ctx context.Context, tokenString string, prescription *types.Prescription) (*types.Prescription, error)

	// ByAppointment returns the prescription attached to an
	// appointment, or a not-found error.
	ByAppointment(ctx context.Context, tokenString, appointmentID string) (*types.Prescription, error)
}

// PrescriptionRepository is the storage boundary for prescriptions.
type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *types.Prescription) error
	GetByAppointmentID(ctx context.Context, appointmentID string) (*types.Prescription, error)
}
