package scheduling

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/clinichq/clinic-backend/pkg/database"
	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// uniqueViolation is the Postgres error code raised when an insert
// hits a unique constraint. For appointments that is the unique index
// on (doctor_id, appointment_time) over non-canceled rows: it decides
// booking races.
const uniqueViolation = "23505"

// AppointmentRepository implements the appointment storage boundary
type AppointmentRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *database.DB, log *logger.Logger) interfaces.AppointmentRepository {
	return &AppointmentRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new appointment. A concurrent booking for the same
// (doctor, time) surfaces as a conflict error from the unique
// constraint, never as a second success.
func (r *AppointmentRepository) Create(ctx context.Context, apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (id, doctor_id, patient_id, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.AppointmentTime,
		apt.Status,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.NewConflictError(types.ErrCodeSlotUnavailable, "appointment slot is unavailable")
		}
		r.logger.Errorf("Failed to create appointment: %v", err)
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	r.logger.Infof("Created appointment %s for patient %s with doctor %s", apt.ID, apt.PatientID, apt.DoctorID)
	return nil
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE id = $1`

	apt := &types.Appointment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&apt.ID,
		&apt.DoctorID,
		&apt.PatientID,
		&apt.AppointmentTime,
		&apt.Status,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "appointment not found: "+id)
		}
		r.logger.Errorf("Failed to get appointment %s: %v", id, err)
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return apt, nil
}

// Update overwrites the appointment time and status of an existing
// appointment.
func (r *AppointmentRepository) Update(ctx context.Context, id string, appointmentTime time.Time, status types.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET appointment_time = $1, status = $2, updated_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, appointmentTime, status, time.Now(), id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.NewConflictError(types.ErrCodeSlotUnavailable, "appointment slot is unavailable")
		}
		r.logger.Errorf("Failed to update appointment %s: %v", id, err)
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	return r.requireRow(result, id)
}

// UpdateStatus overwrites only the status of an existing appointment.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Errorf("Failed to update status of appointment %s: %v", id, err)
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	return r.requireRow(result, id)
}

// Delete removes an appointment record. Cancellation is modeled as
// deletion: the freed slot is immediately bookable again.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Errorf("Failed to delete appointment %s: %v", id, err)
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	return r.requireRow(result, id)
}

// DeleteAllForDoctor removes every appointment referencing a doctor.
// Used when an admin removes the doctor record itself.
func (r *AppointmentRepository) DeleteAllForDoctor(ctx context.Context, doctorID string) error {
	query := `DELETE FROM appointments WHERE doctor_id = $1`

	if _, err := r.db.ExecContext(ctx, query, doctorID); err != nil {
		r.logger.Errorf("Failed to delete appointments for doctor %s: %v", doctorID, err)
		return fmt.Errorf("failed to delete appointments for doctor: %w", err)
	}
	return nil
}

// ListForDoctorBetween returns non-canceled appointments for a doctor
// whose time falls within [start, end] inclusive.
func (r *AppointmentRepository) ListForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_id, appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_time BETWEEN $2 AND $3
		  AND status <> $4
		ORDER BY appointment_time ASC`

	rows, err := r.db.QueryContext(ctx, query, doctorID, start, end, types.StatusCanceled)
	if err != nil {
		r.logger.Errorf("Failed to list appointments for doctor %s: %v", doctorID, err)
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt := &types.Appointment{}
		err := rows.Scan(
			&apt.ID,
			&apt.DoctorID,
			&apt.PatientID,
			&apt.AppointmentTime,
			&apt.Status,
			&apt.CreatedAt,
			&apt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, apt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return appointments, nil
}

// ProjectionsForDoctorBetween returns appointment projections for a
// doctor within a time range, optionally filtered by a
// case-insensitive patient name substring.
func (r *AppointmentRepository) ProjectionsForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.AppointmentProjection, error) {
	query := `
		SELECT a.id, a.doctor_id, d.name, a.patient_id, p.name, a.appointment_time, a.status
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		  AND a.appointment_time BETWEEN $2 AND $3`

	args := []interface{}{doctorID, start, end}

	if patientName != "" {
		query += ` AND p.name ILIKE '%' || $4 || '%'`
		args = append(args, patientName)
	}

	query += ` ORDER BY a.appointment_time ASC`

	return r.queryProjections(ctx, query, args...)
}

// ProjectionsForPatient returns appointment projections for a patient,
// optionally filtered by a case-insensitive doctor name substring.
func (r *AppointmentRepository) ProjectionsForPatient(ctx context.Context, patientID, doctorName string) ([]*types.AppointmentProjection, error) {
	query := `
		SELECT a.id, a.doctor_id, d.name, a.patient_id, p.name, a.appointment_time, a.status
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.patient_id = $1`

	args := []interface{}{patientID}

	if doctorName != "" {
		query += ` AND d.name ILIKE '%' || $2 || '%'`
		args = append(args, doctorName)
	}

	return r.queryProjections(ctx, query, args...)
}

// ProjectionsForPatientByStatus returns a patient's appointments with
// the given status, ordered ascending by appointment time.
func (r *AppointmentRepository) ProjectionsForPatientByStatus(ctx context.Context, patientID string, status types.AppointmentStatus) ([]*types.AppointmentProjection, error) {
	query := `
		SELECT a.id, a.doctor_id, d.name, a.patient_id, p.name, a.appointment_time, a.status
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		WHERE a.patient_id = $1 AND a.status = $2
		ORDER BY a.appointment_time ASC`

	return r.queryProjections(ctx, query, patientID, status)
}

func (r *AppointmentRepository) queryProjections(ctx context.Context, query string, args ...interface{}) ([]*types.AppointmentProjection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Errorf("Failed to query appointment projections: %v", err)
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var projections []*types.AppointmentProjection
	for rows.Next() {
		proj := &types.AppointmentProjection{}
		err := rows.Scan(
			&proj.ID,
			&proj.DoctorID,
			&proj.DoctorName,
			&proj.PatientID,
			&proj.PatientName,
			&proj.AppointmentTime,
			&proj.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment projection: %w", err)
		}
		projections = append(projections, proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment projections: %w", err)
	}

	return projections, nil
}

func (r *AppointmentRepository) requireRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "appointment not found: "+id)
	}
	return nil
}
