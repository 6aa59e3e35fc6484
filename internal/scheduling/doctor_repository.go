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

// DoctorRepository implements the doctor storage boundary
type DoctorRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *database.DB, log *logger.Logger) interfaces.DoctorRepository {
	return &DoctorRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new doctor record. A duplicate email is a conflict.
func (r *DoctorRepository) Create(ctx context.Context, doctor *types.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, email, specialty, available_times, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.Specialty,
		pq.Array(doctor.AvailableTimes),
		doctor.PasswordHash,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.NewConflictError(types.ErrCodeInvalidInput, "doctor already exists: "+doctor.Email)
		}
		r.logger.Errorf("Failed to create doctor: %v", err)
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	r.logger.Infof("Created doctor %s", doctor.ID)
	return nil
}

// GetByID retrieves a doctor by ID
func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*types.Doctor, error) {
	query := `
		SELECT id, name, email, specialty, available_times, password_hash, created_at, updated_at
		FROM doctors
		WHERE id = $1`

	return r.scanDoctor(r.db.QueryRowContext(ctx, query, id), id)
}

// GetByEmail retrieves a doctor by email
func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*types.Doctor, error) {
	query := `
		SELECT id, name, email, specialty, available_times, password_hash, created_at, updated_at
		FROM doctors
		WHERE email = $1`

	return r.scanDoctor(r.db.QueryRowContext(ctx, query, email), email)
}

// Delete removes a doctor record
func (r *DoctorRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM doctors WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Errorf("Failed to delete doctor %s: %v", id, err)
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "doctor not found: "+id)
	}
	return nil
}

// List returns doctors filtered by optional case-insensitive name
// substring and specialty. Results follow insertion order.
func (r *DoctorRepository) List(ctx context.Context, name, specialty string) ([]*types.Doctor, error) {
	query := `
		SELECT id, name, email, specialty, available_times, password_hash, created_at, updated_at
		FROM doctors
		WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if name != "" {
		query += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIndex)
		args = append(args, name)
		argIndex++
	}

	if specialty != "" {
		query += fmt.Sprintf(" AND LOWER(specialty) = LOWER($%d)", argIndex)
		args = append(args, specialty)
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Errorf("Failed to list doctors: %v", err)
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*types.Doctor
	for rows.Next() {
		doctor := &types.Doctor{}
		err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Email,
			&doctor.Specialty,
			pq.Array(&doctor.AvailableTimes),
			&doctor.PasswordHash,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, nil
}

func (r *DoctorRepository) scanDoctor(row *sql.Row, key string) (*types.Doctor, error) {
	doctor := &types.Doctor{}
	var updatedAt time.Time
	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Specialty,
		pq.Array(&doctor.AvailableTimes),
		&doctor.PasswordHash,
		&doctor.CreatedAt,
		&updatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError(types.ErrCodeDoctorNotFound, "doctor not found: "+key)
		}
		r.logger.Errorf("Failed to get doctor %s: %v", key, err)
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	doctor.UpdatedAt = updatedAt
	return doctor, nil
}
