package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeBlockValidate(t *testing.T) {
	assert.NoError(t, (&TimeBlock{StartTime: "09:00", EndTime: "09:40"}).Validate())
	assert.ErrorIs(t, (&TimeBlock{StartTime: "09:40", EndTime: "09:00"}).Validate(), ErrInvalidTimeBlock)
	assert.ErrorIs(t, (&TimeBlock{StartTime: "09:00", EndTime: "09:00"}).Validate(), ErrInvalidTimeBlock)
	assert.Error(t, (&TimeBlock{StartTime: "9am", EndTime: "10:00"}).Validate())

	assert.Equal(t, 40, (&TimeBlock{StartTime: "09:00", EndTime: "09:40"}).DurationMinutes())
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("PET", -5*60*60)
	got := DateOnly(time.Date(2024, 3, 4, 22, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateAndDaysBetween(t *testing.T) {
	start, err := ParseDate("2024-02-27")
	require.NoError(t, err)
	end, err := ParseDate("2024-03-02")
	require.NoError(t, err)

	assert.Equal(t, 4, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))

	_, err = ParseDate("27/02/2024")
	assert.Error(t, err)
}
