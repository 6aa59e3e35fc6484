package clinical

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Mock implementations for testing

type MockAccessGate struct {
	mock.Mock
}

func (m *MockAccessGate) Require(tokenString string, action string, roles ...types.Role) (string, error) {
	callArgs := make([]interface{}, 0, len(roles)+2)
	callArgs = append(callArgs, tokenString, action)
	for _, role := range roles {
		callArgs = append(callArgs, role)
	}
	args := m.Called(callArgs...)
	return args.String(0), args.Error(1)
}

type MockPrescriptionRepository struct {
	mock.Mock
}

func (m *MockPrescriptionRepository) Create(ctx context.Context, prescription *types.Prescription) error {
	args := m.Called(ctx, prescription)
	return args.Error(0)
}

func (m *MockPrescriptionRepository) GetByAppointmentID(ctx context.Context, appointmentID string) (*types.Prescription, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Prescription), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, apt *types.Appointment) error {
	args := m.Called(ctx, apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*types.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id string, appointmentTime time.Time, status types.AppointmentStatus) error {
	args := m.Called(ctx, id, appointmentTime, status)
	return args.Error(0)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id string, status types.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) DeleteAllForDoctor(ctx context.Context, doctorID string) error {
	args := m.Called(ctx, doctorID)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time) ([]*types.Appointment, error) {
	args := m.Called(ctx, doctorID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ProjectionsForDoctorBetween(ctx context.Context, doctorID string, start, end time.Time, patientName string) ([]*types.AppointmentProjection, error) {
	args := m.Called(ctx, doctorID, start, end, patientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.AppointmentProjection), args.Error(1)
}

func (m *MockAppointmentRepository) ProjectionsForPatient(ctx context.Context, patientID, doctorName string) ([]*types.AppointmentProjection, error) {
	args := m.Called(ctx, patientID, doctorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.AppointmentProjection), args.Error(1)
}

func (m *MockAppointmentRepository) ProjectionsForPatientByStatus(ctx context.Context, patientID string, status types.AppointmentStatus) ([]*types.AppointmentProjection, error) {
	args := m.Called(ctx, patientID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.AppointmentProjection), args.Error(1)
}

func setupTestService() (*Service, *MockAccessGate, *MockPrescriptionRepository, *MockAppointmentRepository) {
	gate := new(MockAccessGate)
	prescriptions := new(MockPrescriptionRepository)
	appointments := new(MockAppointmentRepository)

	service := NewService(gate, prescriptions, appointments, logger.New("error"))
	return service, gate, prescriptions, appointments
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("saving flips the appointment to prescribed", func(t *testing.T) {
		service, gate, prescriptions, appointments := setupTestService()

		gate.On("Require", "token", "prescription.create", types.RoleDoctor).Return("doctor@example.com", nil)
		appointments.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{
			ID:     "apt-1",
			Status: types.StatusRequested,
		}, nil)
		prescriptions.On("Create", mock.Anything, mock.MatchedBy(func(p *types.Prescription) bool {
			return p.ID != "" && p.AppointmentID == "apt-1"
		})).Return(nil)
		appointments.On("UpdateStatus", mock.Anything, "apt-1", types.StatusPrescribed).Return(nil)

		saved, err := service.Save(ctx, "token", &types.Prescription{
			AppointmentID: "apt-1",
			Medication:    "amoxicillin",
			Dosage:        "500mg",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)

		prescriptions.AssertExpectations(t)
		appointments.AssertExpectations(t)
	})

	t.Run("second prescription for the same appointment is a conflict", func(t *testing.T) {
		service, gate, prescriptions, appointments := setupTestService()

		gate.On("Require", "token", "prescription.create", types.RoleDoctor).Return("doctor@example.com", nil)
		appointments.On("GetByID", mock.Anything, "apt-1").Return(&types.Appointment{ID: "apt-1"}, nil)
		prescriptions.On("Create", mock.Anything, mock.Anything).Return(
			types.NewConflictError(types.ErrCodeDuplicatePrescription, "appointment already has a prescription: apt-1"))

		_, err := service.Save(ctx, "token", &types.Prescription{
			AppointmentID: "apt-1",
			Medication:    "amoxicillin",
		})
		assert.True(t, types.IsType(err, types.ErrorTypeConflict))

		// The status must not change when the prescription was refused.
		appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown appointment is not found", func(t *testing.T) {
		service, gate, prescriptions, appointments := setupTestService()

		gate.On("Require", "token", "prescription.create", types.RoleDoctor).Return("doctor@example.com", nil)
		appointments.On("GetByID", mock.Anything, "missing").Return(nil,
			types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "appointment not found: missing"))

		_, err := service.Save(ctx, "token", &types.Prescription{
			AppointmentID: "missing",
			Medication:    "amoxicillin",
		})
		assert.True(t, types.IsType(err, types.ErrorTypeNotFound))

		prescriptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing medication is rejected", func(t *testing.T) {
		service, gate, prescriptions, _ := setupTestService()

		gate.On("Require", "token", "prescription.create", types.RoleDoctor).Return("doctor@example.com", nil)

		_, err := service.Save(ctx, "token", &types.Prescription{AppointmentID: "apt-1"})
		assert.True(t, types.IsType(err, types.ErrorTypeValidation))

		prescriptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("patient token cannot prescribe", func(t *testing.T) {
		service, gate, prescriptions, appointments := setupTestService()

		gate.On("Require", "bad", "prescription.create", types.RoleDoctor).Return("",
			types.NewAuthorizationError(types.ErrCodeUnauthorized, "invalid or expired token"))

		_, err := service.Save(ctx, "bad", &types.Prescription{
			AppointmentID: "apt-1",
			Medication:    "amoxicillin",
		})
		assert.True(t, types.IsType(err, types.ErrorTypeAuthorization))

		prescriptions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		appointments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ByAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the attached prescription", func(t *testing.T) {
		service, gate, prescriptions, _ := setupTestService()

		gate.On("Require", "token", "prescription.read", types.RoleDoctor).Return("doctor@example.com", nil)

		expected := &types.Prescription{ID: "rx-1", AppointmentID: "apt-1", Medication: "amoxicillin"}
		prescriptions.On("GetByAppointmentID", mock.Anything, "apt-1").Return(expected, nil)

		result, err := service.ByAppointment(ctx, "token", "apt-1")
		require.NoError(t, err)
		assert.Equal(t, expected, result)
	})

	t.Run("appointment without a prescription is not found", func(t *testing.T) {
		service, gate, prescriptions, _ := setupTestService()

		gate.On("Require", "token", "prescription.read", types.RoleDoctor).Return("doctor@example.com", nil)
		prescriptions.On("GetByAppointmentID", mock.Anything, "apt-2").Return(nil,
			types.NewNotFoundError(types.ErrCodeAppointmentNotFound, "no prescription for appointment: apt-2"))

		_, err := service.ByAppointment(ctx, "token", "apt-2")
		assert.True(t, types.IsType(err, types.ErrorTypeNotFound))
	})
}
