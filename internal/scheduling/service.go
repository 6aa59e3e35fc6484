package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Service implements the SchedulingService interface: the appointment
// ledger, the availability resolver, and the role-scoped query engine.
type Service struct {
	logger       *logger.Logger
	gate         interfaces.AccessGate
	appointments interfaces.AppointmentRepository
	doctors      interfaces.DoctorRepository
	patients     interfaces.PatientRepository
	now          func() time.Time
}

// NewService creates a new scheduling service
func NewService(
	gate interfaces.AccessGate,
	appointments interfaces.AppointmentRepository,
	doctors interfaces.DoctorRepository,
	patients interfaces.PatientRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		logger:       log,
		gate:         gate,
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		now:          time.Now,
	}
}

// AvailableSlots returns the open slots for a doctor on a date. Any
// authenticated role may read availability.
func (s *Service) AvailableSlots(ctx context.Context, tokenString, doctorID, date string) ([]string, error) {
	if _, err := s.gate.Require(tokenString, "availability.read",
		types.RoleAdmin, types.RoleDoctor, types.RolePatient); err != nil {
		return nil, err
	}

	return s.resolveAvailableSlots(ctx, doctorID, date)
}

// resolveAvailableSlots is the single source of truth for slot
// availability: template slots minus booked slots, in template order.
// Booking validation and the public availability read both go through
// here.
func (s *Service) resolveAvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.ListForDoctorBetween(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool, len(appointments))
	for _, apt := range appointments {
		booked[apt.Slot()] = true
	}

	open := make([]string, 0, len(doctor.AvailableTimes))
	for _, slot := range doctor.AvailableTimes {
		if !booked[slot] {
			open = append(open, slot)
		}
	}

	return open, nil
}

// Book creates a new appointment for the authenticated patient. The
// slot check here is a fast path; the storage-level unique constraint
// on (doctor, time) settles concurrent bookings for the same slot.
func (s *Service) Book(ctx context.Context, tokenString string, apt *types.Appointment) (*types.Appointment, error) {
	subject, err := s.gate.Require(tokenString, "appointment.book", types.RolePatient)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}

	if apt.AppointmentTime.IsZero() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "appointment time is required", nil)
	}
	if apt.DoctorID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "doctor ID is required", nil)
	}

	// Slot identity is the stored UTC instant. Normalize before any
	// day-range or slot computation so a request carrying a timezone
	// offset names the same slot the database round-trips.
	apt.AppointmentTime = apt.AppointmentTime.UTC()

	// Patients book for themselves; the patient reference comes from
	// the token, never from the request body.
	apt.PatientID = patient.ID

	open, err := s.resolveAvailableSlots(ctx, apt.DoctorID, apt.AppointmentTime.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	if !containsSlot(open, apt.Slot()) {
		return nil, types.NewConflictError(types.ErrCodeSlotUnavailable, "appointment slot is unavailable")
	}

	apt.ID = uuid.New().String()
	apt.Status = types.StatusRequested

	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.logger.Infof("Booked appointment %s: doctor %s at %s", apt.ID, apt.DoctorID, apt.AppointmentTime.Format(time.RFC3339))
	return apt, nil
}

// Update overwrites the time and status of an appointment owned by
// the authenticated patient. It does not re-check slot availability
// against other appointments; only the storage constraint guards an
// exact slot collision.
func (s *Service) Update(ctx context.Context, tokenString string, upd *types.AppointmentUpdate) error {
	subject, err := s.gate.Require(tokenString, "appointment.update", types.RolePatient)
	if err != nil {
		return err
	}

	patient, err := s.patients.GetByEmail(ctx, subject)
	if err != nil {
		return err
	}

	existing, err := s.appointments.GetByID(ctx, upd.ID)
	if err != nil {
		return err
	}

	if existing.PatientID != patient.ID {
		return types.NewAuthorizationError(types.ErrCodeUnauthorized, "appointment belongs to another patient")
	}

	status, err := types.ParseAppointmentStatus(string(upd.Status))
	if err != nil {
		return err
	}
	if upd.AppointmentTime.IsZero() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "appointment time is required", nil)
	}

	return s.appointments.Update(ctx, upd.ID, upd.AppointmentTime.UTC(), status)
}

// Cancel removes an appointment owned by the authenticated patient.
// Cancellation is terminal: the record is deleted and the slot is
// immediately open again.
func (s *Service) Cancel(ctx context.Context, tokenString, appointmentID string) error {
	subject, err := s.gate.Require(tokenString, "appointment.cancel", types.RolePatient)
	if err != nil {
		return err
	}

	patient, err := s.patients.GetByEmail(ctx, subject)
	if err != nil {
		return err
	}

	existing, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	if existing.PatientID != patient.ID {
		return types.NewAuthorizationError(types.ErrCodeUnauthorized, "appointment belongs to another patient")
	}

	if err := s.appointments.Delete(ctx, appointmentID); err != nil {
		return err
	}

	s.logger.Infof("Canceled appointment %s", appointmentID)
	return nil
}

// ChangeStatus overwrites the status of an appointment. Unrecognized
// status input is rejected, never defaulted.
func (s *Service) ChangeStatus(ctx context.Context, appointmentID string, status types.AppointmentStatus) error {
	parsed, err := types.ParseAppointmentStatus(string(status))
	if err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, appointmentID, parsed)
}

// AppointmentsForDoctor returns the authenticated doctor's
// appointments on a date, optionally narrowed by a case-insensitive
// patient name substring.
func (s *Service) AppointmentsForDoctor(ctx context.Context, tokenString, date, patientName string) ([]*types.AppointmentProjection, error) {
	subject, err := s.gate.Require(tokenString, "appointments.read", types.RoleDoctor)
	if err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}

	start, end, err := dayBounds(date)
	if err != nil {
		return nil, err
	}

	return s.appointments.ProjectionsForDoctorBetween(ctx, doctor.ID, start, end, patientName)
}

// AppointmentsForPatient returns the authenticated patient's
// appointments, optionally narrowed by a past/future condition and a
// doctor name substring. The temporal classification is a pure
// function of the injected clock.
func (s *Service) AppointmentsForPatient(ctx context.Context, tokenString, condition, doctorName string) ([]*types.AppointmentProjection, error) {
	subject, err := s.gate.Require(tokenString, "appointments.read", types.RolePatient)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}

	projections, err := s.appointments.ProjectionsForPatient(ctx, patient.ID, doctorName)
	if err != nil {
		return nil, err
	}

	if condition == "" {
		return projections, nil
	}

	temporal, err := types.ParseTemporalCondition(condition)
	if err != nil {
		return nil, err
	}

	now := s.now()
	filtered := make([]*types.AppointmentProjection, 0, len(projections))
	for _, proj := range projections {
		switch temporal {
		case types.ConditionPast:
			if proj.AppointmentTime.Before(now) {
				filtered = append(filtered, proj)
			}
		case types.ConditionFuture:
			if proj.AppointmentTime.After(now) {
				filtered = append(filtered, proj)
			}
		}
	}

	return filtered, nil
}

// AppointmentsForPatientByStatus returns the authenticated patient's
// appointments with the given status, ordered ascending by time.
func (s *Service) AppointmentsForPatientByStatus(ctx context.Context, tokenString string, status types.AppointmentStatus) ([]*types.AppointmentProjection, error) {
	subject, err := s.gate.Require(tokenString, "appointments.read", types.RolePatient)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}

	parsed, err := types.ParseAppointmentStatus(string(status))
	if err != nil {
		return nil, err
	}

	return s.appointments.ProjectionsForPatientByStatus(ctx, patient.ID, parsed)
}

// FilterDoctors is the public doctor listing: name substring,
// case-insensitive specialty, and inclusive AM/PM bucket membership.
func (s *Service) FilterDoctors(ctx context.Context, filters *types.DoctorFilters) ([]*types.Doctor, error) {
	if filters == nil {
		filters = &types.DoctorFilters{}
	}

	doctors, err := s.doctors.List(ctx, filters.Name, filters.Specialty)
	if err != nil {
		return nil, err
	}

	if filters.Bucket == "" {
		return doctors, nil
	}

	bucket, err := types.ParseTimeBucket(string(filters.Bucket))
	if err != nil {
		return nil, err
	}

	matched := make([]*types.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor.InBucket(bucket) {
			matched = append(matched, doctor)
		}
	}

	return matched, nil
}

// SaveDoctor creates a new doctor record with its slot template.
// Admin only.
func (s *Service) SaveDoctor(ctx context.Context, tokenString string, doctor *types.Doctor, password string) (*types.Doctor, error) {
	if _, err := s.gate.Require(tokenString, "doctor.create", types.RoleAdmin); err != nil {
		return nil, err
	}

	if doctor.Name == "" || doctor.Email == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "doctor name and email are required", nil)
	}

	if err := validateSlotTemplate(doctor.AvailableTimes); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	doctor.ID = uuid.New().String()
	doctor.PasswordHash = string(hash)

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}

	return doctor, nil
}

// DeleteDoctor removes a doctor record and every appointment that
// references it. Admin only.
func (s *Service) DeleteDoctor(ctx context.Context, tokenString, doctorID string) error {
	if _, err := s.gate.Require(tokenString, "doctor.delete", types.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return err
	}

	if err := s.appointments.DeleteAllForDoctor(ctx, doctorID); err != nil {
		return err
	}

	return s.doctors.Delete(ctx, doctorID)
}

// dayBounds returns the inclusive [00:00:00, 23:59:59] range for a
// calendar date.
func dayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, types.NewValidationError(types.ErrCodeInvalidInput, "invalid date format, expected YYYY-MM-DD", nil)
	}

	start := day
	end := day.Add(24*time.Hour - time.Second)
	return start, end, nil
}

// validateSlotTemplate checks every template entry is a zero-padded
// "HH:MM" time of day. The availability logic depends on that format:
// lexicographic order must equal chronological order.
func validateSlotTemplate(slots []string) error {
	for _, slot := range slots {
		parsed, err := time.Parse(types.SlotLayout, slot)
		if err != nil || parsed.Format(types.SlotLayout) != slot {
			return types.NewValidationError(types.ErrCodeInvalidInput, "invalid slot time, expected zero-padded HH:MM: "+slot, nil)
		}
	}
	return nil
}

func containsSlot(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
