package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorInBucket(t *testing.T) {
	t.Run("late morning slot is AM", func(t *testing.T) {
		doctor := &Doctor{AvailableTimes: []string{"11:30"}}
		assert.True(t, doctor.InBucket(BucketAM))
		assert.False(t, doctor.InBucket(BucketPM))
	})

	t.Run("noon and later is PM", func(t *testing.T) {
		doctor := &Doctor{AvailableTimes: []string{"12:00"}}
		assert.False(t, doctor.InBucket(BucketAM))
		assert.True(t, doctor.InBucket(BucketPM))
	})

	t.Run("slots on both sides match both buckets", func(t *testing.T) {
		doctor := &Doctor{AvailableTimes: []string{"09:00", "13:00"}}
		assert.True(t, doctor.InBucket(BucketAM))
		assert.True(t, doctor.InBucket(BucketPM))
	})

	t.Run("empty template matches nothing", func(t *testing.T) {
		doctor := &Doctor{}
		assert.False(t, doctor.InBucket(BucketAM))
		assert.False(t, doctor.InBucket(BucketPM))
	})
}

func TestParseTimeBucket(t *testing.T) {
	am, err := ParseTimeBucket("am")
	require.NoError(t, err)
	assert.Equal(t, BucketAM, am)

	pm, err := ParseTimeBucket(" PM ")
	require.NoError(t, err)
	assert.Equal(t, BucketPM, pm)

	_, err = ParseTimeBucket("noon")
	assert.True(t, IsType(err, ErrorTypeValidation))
}
