package clinical

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/clinichq/clinic-backend/pkg/database"
	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

const uniqueViolation = "23505"

// PrescriptionRepository implements the prescription storage boundary
type PrescriptionRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository(db *database.DB, log *logger.Logger) interfaces.PrescriptionRepository {
	return &PrescriptionRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new prescription. The unique constraint on
// appointment_id makes a second prescription for the same appointment
// a conflict, even under concurrent saves.
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *types.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, appointment_id, medication, dosage, notes)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		prescription.ID,
		prescription.AppointmentID,
		prescription.Medication,
		prescription.Dosage,
		prescription.Notes,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.NewConflictError(types.ErrCodeDuplicatePrescription, "appointment already has a prescription: "+prescription.AppointmentID)
		}
		r.logger.Errorf("Failed to create prescription: %v", err)
		return fmt.Errorf("failed to create prescription: %w", err)
	}

	r.logger.Infof("Created prescription %s for appointment %s", prescription.ID, prescription.AppointmentID)
	return nil
}

// GetByAppointmentID retrieves the prescription attached to an appointment
func (r *PrescriptionRepository) GetByAppointmentID(ctx context.Context, appointmentID string) (*types.Prescription, error) {
	query := `
		SELECT id, appointment_id, medication, dosage, notes, created_at
		FROM prescriptions
		WHERE appointment_id = $1`

	prescription := &types.Prescription{}
	err := r.db.QueryRowContext(ctx, query, appointmentID).Scan(
		&prescription.ID,
		&prescription.AppointmentID,
		&prescription.Medication,
		&prescription.Dosage,
		&prescription.Notes,
		&prescription.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "no prescription for appointment: "+appointmentID)
		}
		r.logger.Errorf("Failed to get prescription for appointment %s: %v", appointmentID, err)
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	return prescription, nil
}
