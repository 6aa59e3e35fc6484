package clinical

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Service implements the PrescriptionService interface
type Service struct {
	logger        *logger.Logger
	gate          interfaces.AccessGate
	prescriptions interfaces.PrescriptionRepository
	appointments  interfaces.AppointmentRepository
}

// NewService creates a new clinical service
func NewService(
	gate interfaces.AccessGate,
	prescriptions interfaces.PrescriptionRepository,
	appointments interfaces.AppointmentRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		logger:        log,
		gate:          gate,
		prescriptions: prescriptions,
		appointments:  appointments,
	}
}

// Save stores a prescription against an appointment and flips the
// appointment status to prescribed. The appointment_id unique
// constraint decides concurrent duplicate saves.
func (s *Service) Save(ctx context.Context, tokenString string, prescription *types.Prescription) (*types.Prescription, error) {
	if _, err := s.gate.Require(tokenString, "prescription.create", types.RoleDoctor); err != nil {
		return nil, err
	}

	if prescription.AppointmentID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "appointment ID is required", nil)
	}
	if prescription.Medication == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "medication is required", nil)
	}

	if _, err := s.appointments.GetByID(ctx, prescription.AppointmentID); err != nil {
		return nil, err
	}

	prescription.ID = uuid.New().String()

	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}

	if err := s.appointments.UpdateStatus(ctx, prescription.AppointmentID, types.StatusPrescribed); err != nil {
		return nil, err
	}

	s.logger.Infof("Saved prescription %s, appointment %s marked prescribed", prescription.ID, prescription.AppointmentID)
	return prescription, nil
}

// ByAppointment returns the prescription attached to an appointment
func (s *Service) ByAppointment(ctx context.Context, tokenString, appointmentID string) (*types.Prescription, error) {
	if _, err := s.gate.Require(tokenString, "prescription.read", types.RoleDoctor); err != nil {
		return nil, err
	}

	return s.prescriptions.GetByAppointmentID(ctx, appointmentID)
}
