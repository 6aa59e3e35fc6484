package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppointmentStatus(t *testing.T) {
	t.Run("accepts every known status", func(t *testing.T) {
		for _, input := range []string{"requested", "prescribed", "completed", "canceled"} {
			status, err := ParseAppointmentStatus(input)
			require.NoError(t, err)
			assert.Equal(t, AppointmentStatus(input), status)
		}
	})

	t.Run("is case and whitespace tolerant", func(t *testing.T) {
		status, err := ParseAppointmentStatus("  Requested ")
		require.NoError(t, err)
		assert.Equal(t, StatusRequested, status)
	})

	t.Run("rejects unknown input instead of defaulting", func(t *testing.T) {
		for _, input := range []string{"", "pending", "cancelled?", "4"} {
			_, err := ParseAppointmentStatus(input)
			assert.Error(t, err, "input %q", input)
			assert.True(t, IsType(err, ErrorTypeValidation))
		}
	})
}

func TestAppointmentSlot(t *testing.T) {
	apt := &Appointment{AppointmentTime: time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)}
	assert.Equal(t, "09:05", apt.Slot())

	apt.AppointmentTime = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "14:30", apt.Slot())
}

func TestParseTemporalCondition(t *testing.T) {
	past, err := ParseTemporalCondition("past")
	require.NoError(t, err)
	assert.Equal(t, ConditionPast, past)

	future, err := ParseTemporalCondition("FUTURE")
	require.NoError(t, err)
	assert.Equal(t, ConditionFuture, future)

	_, err = ParseTemporalCondition("upcoming")
	assert.True(t, IsType(err, ErrorTypeValidation))
}
