package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", value, IST)
	require.NoError(t, err)
	return ts
}

func TestStatusAtCutoff(t *testing.T) {
	cases := []struct {
		at   string
		want string
	}{
		{"2025-04-07 08:00:00", StatusOnTime},
		{"2025-04-07 09:14:59", StatusOnTime},
		{"2025-04-07 09:15:00", StatusLate}, // boundary is Late
		{"2025-04-07 09:15:01", StatusLate},
		{"2025-04-07 13:30:00", StatusLate},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusAt(istTime(t, tc.at)), tc.at)
	}
}

func TestStatusAtConvertsToIST(t *testing.T) {
	// 03:40 UTC is 09:10 IST — on time even though UTC hour is early morning.
	utc := time.Date(2025, 4, 7, 3, 40, 0, 0, time.UTC)
	assert.Equal(t, StatusOnTime, StatusAt(utc))

	// 03:45 UTC is exactly 09:15 IST.
	assert.Equal(t, StatusLate, StatusAt(utc.Add(5*time.Minute)))
}

func TestDayOfUsesISTCalendar(t *testing.T) {
	// 20:00 UTC is already the next day in IST.
	utc := time.Date(2025, 4, 7, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-04-08", DayOf(utc))
}

func TestDayBoundsCoversWholeDay(t *testing.T) {
	start, end, err := DayBounds("2025-04-07")
	require.NoError(t, err)

	first := istTime(t, "2025-04-07 00:00:00")
	last := istTime(t, "2025-04-07 23:59:59")
	assert.False(t, first.Before(start))
	assert.True(t, last.Before(end))

	// The instant before midnight of the previous day is excluded.
	assert.True(t, istTime(t, "2025-04-06 23:59:59").Before(start))
	// Midnight of the next day is excluded.
	assert.False(t, istTime(t, "2025-04-08 00:00:00").Before(end))
}

func TestRangeBounds(t *testing.T) {
	start, end, err := RangeBounds("2025-04-01", "2025-04-07")
	require.NoError(t, err)
	assert.True(t, istTime(t, "2025-04-07 23:59:59").Before(end))
	assert.False(t, istTime(t, "2025-04-01 00:00:00").Before(start))

	_, _, err = RangeBounds("bad", "2025-04-07")
	assert.Error(t, err)
}
