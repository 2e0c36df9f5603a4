// Package stores models physical storefronts with weekly opening hours.
package stores

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidHours = errors.New("store cannot be closed before it was opened")

// Clock is a time of day in minutes since midnight.
type Clock int

func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60) }

// DayHours is one opening window for one day of the week.
type DayHours struct {
	Day   time.Weekday
	Open  Clock
	Close Clock
}

type Address struct {
	Street  string
	City    string
	Country string
}

type Store struct {
	ID      int64
	Name    string
	Address Address
	Phone   string
	Email   string
	Hours   []DayHours
	Active  bool
}

// DefaultHours is the schedule a new store starts with: open all day, every
// day, until edited.
func DefaultHours() []DayHours {
	out := make([]DayHours, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, DayHours{Day: d, Open: NewClock(0, 0), Close: NewClock(23, 59)})
	}
	return out
}

// ValidateHours rejects any window whose closing time is not strictly after
// its opening time.
func ValidateHours(hours []DayHours) error {
	for _, h := range hours {
		if h.Close <= h.Open {
			return ErrInvalidHours
		}
	}
	return nil
}

// OpenAt reports whether the store is open at t: the window configured for
// t's weekday must satisfy open <= t < close, comparing time of day only.
func (s *Store) OpenAt(t time.Time) bool {
	now := NewClock(t.Hour(), t.Minute())
	for _, h := range s.Hours {
		if h.Day == t.Weekday() {
			return h.Open <= now && now < h.Close
		}
	}
	return false
}

// Query filters a store list. A zero field places no constraint on that
// dimension.
type Query struct {
	Name    string // case-insensitive substring
	City    string // exact match
	OpenNow bool
}

func Filter(list []Store, q Query, now time.Time) []Store {
	out := make([]Store, 0, len(list))
	name := strings.ToLower(q.Name)
	for i := range list {
		s := list[i]
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if q.City != "" && s.Address.City != q.City {
			continue
		}
		if q.OpenNow && !s.OpenAt(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Cities returns the sorted set of cities that have a store.
func Cities(list []Store) []string {
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, s := range list {
		if _, ok := seen[s.Address.City]; ok {
			continue
		}
		seen[s.Address.City] = struct{}{}
		out = append(out, s.Address.City)
	}
	sort.Strings(out)
	return out
}
