// Package availability decides whether a venue is open during a meeting slot.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
)

const endOfDay = 24 * 60

// IsOpenDuring reports whether the venue is open during any part of slot on
// date. Unknown or unparsable hours count as closed.
func IsOpenDuring(hours domain.OpeningHours, date time.Time, slot calendar.Slot) bool {
	slotStart, slotEnd, ok := calendar.Window(slot)
	if !ok {
		return false
	}
	day, ok := hours.For(date.Weekday())
	if !ok {
		return false
	}
	openMin, err := ParseClock(day.Open)
	if err != nil {
		return false
	}
	closeMin, err := ParseClock(day.Close)
	if err != nil {
		return false
	}
	// Closing at or before opening means the venue stays open past midnight.
	if closeMin <= openMin {
		closeMin = endOfDay
	}
	return openMin < slotEnd && closeMin > slotStart
}

// ParseClock converts "HH:MM" to minutes since midnight. "24:00" is accepted.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	total := h*60 + m
	if h < 0 || m < 0 || m > 59 || total > endOfDay {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return total, nil
}
