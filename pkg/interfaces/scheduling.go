package interfaces

import (
	"context"
	"time"

	"github.com/clinichq/clinic-backend/pkg/types"
)

// SchedulingService owns the appointment ledger, the availability
// resolver, and the role-scoped query engine.
type SchedulingService interface {
	// Availability
	AvailableSlots(ctx context.Context, tokenString, doctorID, date string) ([]string, error)

	// Appointment lifecycle
	Book(ctx context.Context, tokenString string, apt *types.Appointment) (*types.Appointment, error)
	Update(ctx context.Context, tokenString string, upd *types.AppointmentUpdate) error
	Cancel(ctx context.Context, tokenString, appointmentID string) error
	ChangeStatus(ctx context.Context, appointmentID string, status types.AppointmentStatus) error

	// Role-scoped queries
	AppointmentsForDoctor(ctx context.Context, tokenString, date, patientName string) ([]*types.AppointmentProjection, error)
	AppointmentsForPatient(ctx context.Context, tokenString, condition, doctorName string) ([]*types.AppointmentProjection, error)
	AppointmentsForPatientByStatus(ctx context.Context, tokenString string, status types.AppointmentStatus) ([]*types.AppointmentProjection, error)

	// Public doctor listing
	FilterDoctors(ctx context.Context, filters *types.DoctorFilters) ([]*types.Doctor, error)

	// Doctor records (admin)
	SaveDoctor(ctx context.Context, tokenString string, doctor *types.Doctor, password string) (*types.Doctor, error)
	DeleteDoctor(ctx context.Context, tokenString, doctorID string) error
}

// AppointmentRepository is the storage boundary for appointment records.
type AppointmentRepository interface {
	Create(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	Update(ctx context.Context, id string, appointmentTime time.Time, status types.AppointmentStatus) error
	UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
	DeleteAllForDoctor(ctx context.Context, doctorID string) error

	// ListForDoctorBetween returns non-canceled appointments for a
	// doctor whose time falls within [start, end] inclusive.
	ListForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error)

	// Projections for the query engine
	ProjectionsForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.AppointmentProjection, error)
	ProjectionsForPatient(ctx context.Context, patientID, doctorName string) ([]*types.AppointmentProjection, error)
	ProjectionsForPatientByStatus(ctx context.Context, patientID string, status types.AppointmentStatus) ([]*types.AppointmentProjection, error)
}

// DoctorRepository is the storage boundary for doctor records.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *types.Doctor) error
	GetByID(ctx context.Context, id string) (*types.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*types.Doctor, error)
	Delete(ctx context.Context, id string) error

	// List returns doctors filtered by optional name substring and
	// specialty (both case-insensitive). Empty strings mean no filter.
	List(ctx context.Context, name, specialty string) ([]*types.Doctor, error)
}

// PatientRepository is the storage boundary for patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient *types.Patient) error
	GetByID(ctx context.Context, id string) (*types.Patient, error)
	GetByEmail(ctx context.Context, email string) (*types.Patient, error)
}

// AdminRepository is the storage boundary for admin records.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*types.Admin, error)
}
