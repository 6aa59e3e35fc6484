package iam

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

// PatientRepository implements the patient storage boundary
type PatientRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *database.DB, log *logger.Logger) interfaces.PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new patient record. A duplicate email is a conflict.
func (r *PatientRepository) Create(ctx context.Context, patient *types.Patient) error {
	query := `
		INSERT INTO patients (id, name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.PasswordHash,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.NewConflictError(types.ErrCodeInvalidInput, "patient already exists: "+patient.Email)
		}
		r.logger.Errorf("Failed to create patient: %v", err)
		return fmt.Errorf("failed to create patient: %w", err)
	}

	r.logger.Infof("Created patient %s", patient.ID)
	return nil
}

// GetByID retrieves a patient by ID
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*types.Patient, error) {
	query := `
		SELECT id, name, email, phone, password_hash, created_at
		FROM patients
		WHERE id = $1`

	return r.scanPatient(r.db.QueryRowContext(ctx, query, id), id)
}

// GetByEmail retrieves a patient by email
func (r *PatientRepository) GetByEmail(ctx context.Context, email string) (*types.Patient, error) {
	query := `
		SELECT id, name, email, phone, password_hash, created_at
		FROM patients
		WHERE email = $1`

	return r.scanPatient(r.db.QueryRowContext(ctx, query, email), email)
}

func (r *PatientRepository) scanPatient(row *sql.Row, key string) (*types.Patient, error) {
	patient := &types.Patient{}
	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.Phone,
		&patient.PasswordHash,
		&patient.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(types.ErrCodePatientNotFound, "patient not found: "+key)
		}
		r.logger.Errorf("Failed to get patient %s: %v", key, err)
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// AdminRepository implements the admin storage boundary
type AdminRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.DB, log *logger.Logger) interfaces.AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: log,
	}
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*types.Admin, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1`

	admin := &types.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(types.ErrCodeAdminNotFound, "admin not found: "+username)
		}
		r.logger.Errorf("Failed to get admin %s: %v", username, err)
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}
