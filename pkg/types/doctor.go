package types

import (
	"strings"
	"time"
)

// Doctor represents a clinician patients can book
type Doctor struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Specialty string    `json:"specialty" db:"specialty"`
	// AvailableTimes is the doctor's recurring slot template: ordered
	// "HH:MM" times of day, independent of calendar date.
	AvailableTimes []string  `json:"available_times" db:"available_times"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TimeBucket is the coarse AM/PM classification used by the public
// doctor filter. Membership is inclusive: a doctor with morning and
// afternoon slots matches both buckets.
type TimeBucket string

const (
	BucketAM TimeBucket = "AM"
	BucketPM TimeBucket = "PM"

	// noonSlot splits the day; slots strictly before it are AM,
	// slots at or after it are PM.
	noonSlot = "12:00"
)

// ParseTimeBucket parses an AM/PM filter value.
func ParseTimeBucket(s string) (TimeBucket, error) {
	switch TimeBucket(strings.ToUpper(strings.TrimSpace(s))) {
	case BucketAM:
		return BucketAM, nil
	case BucketPM:
		return BucketPM, nil
	default:
		return "", NewValidationError(ErrCodeInvalidInput, "unknown time bucket: "+s, nil)
	}
}

// InBucket reports whether any of the doctor's template slots falls in
// the given bucket.
func (d *Doctor) InBucket(bucket TimeBucket) bool {
	for _, slot := range d.AvailableTimes {
		if bucket == BucketAM && slot < noonSlot {
			return true
		}
		if bucket == BucketPM && slot >= noonSlot {
			return true
		}
	}
	return false
}

// DoctorFilters represents the public doctor listing filters. Zero
// values mean "not filtered".
type DoctorFilters struct {
	Name      string     `json:"name,omitempty"`
	Specialty string     `json:"specialty,omitempty"`
	Bucket    TimeBucket `json:"bucket,omitempty"`
}
