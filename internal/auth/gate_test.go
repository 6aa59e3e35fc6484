package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-backend/pkg/logger"
	"github.com/clinichq/clinic-backend/pkg/types"
)

type MockTokenAuthority struct {
	mock.Mock
}

func (m *MockTokenAuthority) Issue(subject string, role types.Role) (*types.AuthToken, error) {
	args := m.Called(subject, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthToken), args.Error(1)
}

func (m *MockTokenAuthority) Validate(tokenString string, roles ...types.Role) bool {
	callArgs := make([]interface{}, 0, len(roles)+1)
	callArgs = append(callArgs, tokenString)
	for _, role := range roles {
		callArgs = append(callArgs, role)
	}
	args := m.Called(callArgs...)
	return args.Bool(0)
}

func (m *MockTokenAuthority) Subject(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func TestGate_Require(t *testing.T) {
	t.Run("valid token passes and yields the subject", func(t *testing.T) {
		authority := new(MockTokenAuthority)
		gate := NewGate(authority, logger.New("error"))

		authority.On("Validate", "good-token", types.RolePatient).Return(true)
		authority.On("Subject", "good-token").Return("patient@example.com", nil)

		subject, err := gate.Require("good-token", "appointment.book", types.RolePatient)
		require.NoError(t, err)
		assert.Equal(t, "patient@example.com", subject)

		authority.AssertExpectations(t)
	})

	t.Run("invalid token is an authorization error", func(t *testing.T) {
		authority := new(MockTokenAuthority)
		gate := NewGate(authority, logger.New("error"))

		authority.On("Validate", "bad-token", types.RolePatient).Return(false)

		subject, err := gate.Require("bad-token", "appointment.book", types.RolePatient)
		assert.Error(t, err)
		assert.Empty(t, subject)
		assert.True(t, types.IsType(err, types.ErrorTypeAuthorization))

		// The authority must never be asked for a subject on denial.
		authority.AssertNotCalled(t, "Subject", mock.Anything)
		authority.AssertExpectations(t)
	})

	t.Run("subject extraction failure fails closed", func(t *testing.T) {
		authority := new(MockTokenAuthority)
		gate := NewGate(authority, logger.New("error"))

		authority.On("Validate", "odd-token", types.RoleDoctor).Return(true)
		authority.On("Subject", "odd-token").Return("",
			types.NewAuthenticationError(types.ErrCodeUnauthorized, "cannot extract subject from token"))

		subject, err := gate.Require("odd-token", "prescription.create", types.RoleDoctor)
		assert.Error(t, err)
		assert.Empty(t, subject)

		authority.AssertExpectations(t)
	})
}
