package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/clinic-backend/pkg/types"
)

func newTestAuthority() *Authority {
	return NewAuthority("test-secret-key", "clinic-test", time.Hour)
}

func TestAuthority_IssueAndValidate(t *testing.T) {
	authority := newTestAuthority()

	t.Run("issued token validates for its role", func(t *testing.T) {
		token, err := authority.Issue("patient@example.com", types.RolePatient)
		require.NoError(t, err)
		require.NotNil(t, token)

		assert.Equal(t, "Bearer", token.TokenType)
		assert.Equal(t, int64(3600), token.ExpiresIn)
		assert.True(t, authority.Validate(token.AccessToken, types.RolePatient))
	})

	t.Run("token does not validate for a different role", func(t *testing.T) {
		token, err := authority.Issue("patient@example.com", types.RolePatient)
		require.NoError(t, err)

		assert.False(t, authority.Validate(token.AccessToken, types.RoleAdmin))
		assert.False(t, authority.Validate(token.AccessToken, types.RoleDoctor))
	})

	t.Run("token validates when its role is among several allowed", func(t *testing.T) {
		token, err := authority.Issue("doctor@example.com", types.RoleDoctor)
		require.NoError(t, err)

		assert.True(t, authority.Validate(token.AccessToken,
			types.RoleAdmin, types.RoleDoctor, types.RolePatient))
	})

	t.Run("malformed token is not valid", func(t *testing.T) {
		assert.False(t, authority.Validate("not-a-token", types.RolePatient))
		assert.False(t, authority.Validate("", types.RolePatient))
	})

	t.Run("token signed with another secret is not valid", func(t *testing.T) {
		other := NewAuthority("different-secret", "clinic-test", time.Hour)
		token, err := other.Issue("patient@example.com", types.RolePatient)
		require.NoError(t, err)

		assert.False(t, authority.Validate(token.AccessToken, types.RolePatient))
	})
}

func TestAuthority_Expiry(t *testing.T) {
	authority := NewAuthority("test-secret-key", "clinic-test", time.Hour)

	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	authority.now = func() time.Time { return issuedAt }

	token, err := authority.Issue("patient@example.com", types.RolePatient)
	require.NoError(t, err)

	t.Run("valid before expiry", func(t *testing.T) {
		authority.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
		assert.True(t, authority.Validate(token.AccessToken, types.RolePatient))
	})

	t.Run("invalid after expiry", func(t *testing.T) {
		authority.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		assert.False(t, authority.Validate(token.AccessToken, types.RolePatient))
	})
}

func TestAuthority_Subject(t *testing.T) {
	authority := newTestAuthority()

	t.Run("returns the subject the token was issued to", func(t *testing.T) {
		token, err := authority.Issue("doctor@example.com", types.RoleDoctor)
		require.NoError(t, err)

		subject, err := authority.Subject(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "doctor@example.com", subject)
	})

	t.Run("fails closed on a malformed token", func(t *testing.T) {
		subject, err := authority.Subject("garbage")
		assert.Error(t, err)
		assert.Empty(t, subject)
		assert.True(t, types.IsType(err, types.ErrorTypeAuthentication))
	})
}
