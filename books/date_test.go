package books

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2023-02-29", "2024-13-01", "24-3-5", "01/02/2024", "2024-01-01T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.True(t, IsValidation(err), "%q should be rejected", bad)
	}
}

func TestParseDate_UnpaddedMonthAndDay(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2024-3-5", NewDate(2024, time.March, 5)},
		{"2024-03-5", NewDate(2024, time.March, 5)},
		{"2024-3-05", NewDate(2024, time.March, 5)},
		{"2024-12-31", NewDate(2024, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	// String always writes the padded form.
	d, err := ParseDate("2024-3-5")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.String())
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2019, time.December, 31)
	b := NewDate(2020, time.January, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(NewDate(2019, time.December, 31)))
	assert.True(t, Date{}.IsZero())
}

func TestToday_UsesClockDate(t *testing.T) {
	late := ClockFunc(func() time.Time { return time.Date(2020, 1, 1, 23, 59, 59, 0, time.UTC) })
	assert.Equal(t, NewDate(2020, time.January, 1), Today(late))
}
