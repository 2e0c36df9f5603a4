package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, 0, 0, time.UTC)
}

func nineToFive() *Store {
	return &Store{
		Name: "Downtown",
		Hours: []DayHours{
			{Day: time.Monday, Open: NewClock(9, 0), Close: NewClock(17, 0)},
		},
	}
}

func TestOpenAtBoundaries(t *testing.T) {
	s := nineToFive()
	assert.False(t, s.OpenAt(monday(8, 59)))
	assert.True(t, s.OpenAt(monday(9, 0)))
	assert.True(t, s.OpenAt(monday(16, 59)))
	assert.False(t, s.OpenAt(monday(17, 0)))
}

func TestOpenAtNoWindowForDay(t *testing.T) {
	s := nineToFive()
	tuesday := monday(12, 0).AddDate(0, 0, 1)
	assert.False(t, s.OpenAt(tuesday))
}

func TestValidateHours(t *testing.T) {
	require.NoError(t, ValidateHours(DefaultHours()))

	bad := []DayHours{{Day: time.Monday, Open: NewClock(10, 0), Close: NewClock(10, 0)}}
	assert.ErrorIs(t, ValidateHours(bad), ErrInvalidHours)

	inverted := []DayHours{{Day: time.Monday, Open: NewClock(18, 0), Close: NewClock(9, 0)}}
	assert.ErrorIs(t, ValidateHours(inverted), ErrInvalidHours)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewClock(9, 30), c)
	assert.Equal(t, "09:30", c.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func sampleStores() []Store {
	open := DayHours{Day: time.Monday, Open: NewClock(0, 0), Close: NewClock(23, 59)}
	closed := DayHours{Day: time.Monday, Open: NewClock(1, 0), Close: NewClock(2, 0)}
	return []Store{
		{ID: 1, Name: "Game Hub", Address: Address{City: "Haifa"}, Hours: []DayHours{open}},
		{ID: 2, Name: "Pixel Palace", Address: Address{City: "Tel Aviv"}, Hours: []DayHours{closed}},
		{ID: 3, Name: "The Hub", Address: Address{City: "Haifa"}, Hours: []DayHours{closed}},
	}
}

func TestFilter(t *testing.T) {
	now := monday(12, 0)
	list := sampleStores()

	assert.Len(t, Filter(list, Query{}, now), 3)

	byName := Filter(list, Query{Name: "hub"}, now)
	require.Len(t, byName, 2)
	assert.Equal(t, int64(1), byName[0].ID)
	assert.Equal(t, int64(3), byName[1].ID)

	byCity := Filter(list, Query{City: "Tel Aviv"}, now)
	require.Len(t, byCity, 1)
	assert.Equal(t, int64(2), byCity[0].ID)

	openNow := Filter(list, Query{OpenNow: true}, now)
	require.Len(t, openNow, 1)
	assert.Equal(t, int64(1), openNow[0].ID)

	// predicates intersect
	combined := Filter(list, Query{Name: "hub", City: "Haifa", OpenNow: true}, now)
	require.Len(t, combined, 1)
	assert.Equal(t, int64(1), combined[0].ID)
}

func TestCities(t *testing.T) {
	assert.Equal(t, []string{"Haifa", "Tel Aviv"}, Cities(sampleStores()))
}

func TestDefaultHours(t *testing.T) {
	hours := DefaultHours()
	require.Len(t, hours, 7)
	for i, h := range hours {
		assert.Equal(t, time.Weekday(i), h.Day)
		assert.Equal(t, NewClock(0, 0), h.Open)
		assert.Equal(t, NewClock(23, 59), h.Close)
	}
}
