package iam

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-backend/pkg/interfaces"
	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

// Service implements the IdentityService interface: credential checks
// and token issuance for the three roles.
type Service struct {
	logger    *logger.Logger
	authority interfaces.TokenAuthority
	admins    interfaces.AdminRepository
	doctors   interfaces.DoctorRepository
	patients  interfaces.PatientRepository
}

// NewService creates a new identity service
func NewService(
	authority interfaces.TokenAuthority,
	admins interfaces.AdminRepository,
	doctors interfaces.DoctorRepository,
	patients interfaces.PatientRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		logger:    log,
		authority: authority,
		admins:    admins,
		doctors:   doctors,
		patients:  patients,
	}
}

// invalidCredentials is returned for every login failure. An unknown
// identifier and a wrong password are deliberately indistinguishable.
func invalidCredentials() error {
	return types.NewAuthenticationError(types.ErrCodeAuthenticationFailed, "invalid credentials")
}

// LoginAdmin authenticates an admin by username and password
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (*types.AuthToken, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if types.IsType(err, types.ErrorTypeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, invalidCredentials()
	}

	return s.authority.Issue(admin.Username, types.RoleAdmin)
}

// LoginDoctor authenticates a doctor by email and password
func (s *Service) LoginDoctor(ctx context.Context, email, password string) (*types.AuthToken, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		if types.IsType(err, types.ErrorTypeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(password)) != nil {
		return nil, invalidCredentials()
	}

	return s.authority.Issue(doctor.Email, types.RoleDoctor)
}

// LoginPatient authenticates a patient by email and password
func (s *Service) LoginPatient(ctx context.Context, email, password string) (*types.AuthToken, error) {
	patient, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if types.IsType(err, types.ErrorTypeNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(password)) != nil {
		return nil, invalidCredentials()
	}

	return s.authority.Issue(patient.Email, types.RolePatient)
}

// RegisterPatient creates a new patient account
func (s *Service) RegisterPatient(ctx context.Context, patient *types.Patient, password string) (*types.Patient, error) {
	if patient.Name == "" || patient.Email == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient name and email are required", nil)
	}
	if len(password) < 8 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "failed to hash password", err)
	}

	patient.ID = uuid.New().String()
	patient.PasswordHash = string(hash)

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Infof("Registered patient %s", patient.ID)
	return patient, nil
}
