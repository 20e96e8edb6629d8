package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampOfWinter(t *testing.T) {
	instant := time.Date(2026, time.January, 15, 21, 30, 0, 0, time.UTC)

	s := StampOf(instant)

	assert.Equal(t, "2026-01-15T21:30:00Z", s.Instant)
	assert.Equal(t, "2026-01-16 02:30:00", s.Pakistan)
	assert.Equal(t, "2026-01-15 21:30:00", s.UK)
}

func TestStampOfBritishSummerTime(t *testing.T) {
	instant := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)

	s := StampOf(instant)

	assert.Equal(t, "2026-07-01 17:00:00", s.Pakistan)
	assert.Equal(t, "2026-07-01 13:00:00", s.UK)
}

func TestTodayAndDaysAgoUsePakistanDate(t *testing.T) {
	instant := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC) // 01:00 on 2 March in Karachi

	assert.Equal(t, "2026-03-02", Today(instant))
	assert.Equal(t, "2026-02-23", DaysAgo(instant, 7))
}

func TestParseDatePrefix(t *testing.T) {
	d, ok := ParseDatePrefix("2026-10-16 09:15:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDatePrefix("16/10/2026")
	assert.False(t, ok)
	_, ok = ParseDatePrefix("2026")
	assert.False(t, ok)
}

func TestDashboard(t *testing.T) {
	instant := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC)

	faces := Dashboard(Fixed(instant).Now())

	require.Len(t, faces, 2)
	assert.Equal(t, "Pakistan Time", faces[0].Label)
	assert.Equal(t, "13:00:00", faces[0].Time)
	assert.Equal(t, "+05:00", faces[0].Offset)
	assert.Equal(t, "UK Time", faces[1].Label)
	assert.Equal(t, "09:00:00", faces[1].Time)
	assert.Equal(t, "BST", faces[1].Abbrev)
}
