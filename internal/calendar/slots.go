// Package calendar maps civil dates and named meeting slots to concrete
// instants and renders iCalendar artifacts for them.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a civil date.
const DateLayout = "2006-01-02"

// Slot is one of the three fixed meeting periods of a day.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
)

// window is a half-open [Start, End) range in minutes since midnight.
type window struct {
	Start int
	End   int
}

// slotWindows is the only slot boundary table in the module.
var slotWindows = map[Slot]window{
	SlotMorning:   {Start: 7 * 60, End: 12 * 60},
	SlotAfternoon: {Start: 12 * 60, End: 17 * 60},
	SlotEvening:   {Start: 17 * 60, End: 21 * 60},
}

// Slots lists the valid slots in chronological order.
func Slots() []Slot {
	return []Slot{SlotMorning, SlotAfternoon, SlotEvening}
}

// ParseSlot normalizes s and returns the matching slot.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(strings.ToLower(strings.TrimSpace(s)))
	if !slot.Valid() {
		return "", fmt.Errorf("unknown slot %q", s)
	}
	return slot, nil
}

// Valid reports whether s is one of the three named slots.
func (s Slot) Valid() bool {
	_, ok := slotWindows[s]
	return ok
}

// Label is a human readable form such as "Morning (07:00-12:00)".
func (s Slot) Label() string {
	w, ok := slotWindows[s]
	if !ok {
		return string(s)
	}
	name := string(s)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s (%s-%s)", name, formatMinutes(w.Start), formatMinutes(w.End))
}

// Window returns the slot boundaries in minutes since midnight.
func Window(s Slot) (startMin, endMin int, ok bool) {
	w, ok := slotWindows[s]
	return w.Start, w.End, ok
}

// ParseDate parses a YYYY-MM-DD civil date. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// FormatDate renders the civil date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Calendar resolves slots in a fixed location.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc. A nil loc means UTC.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the wall-clock location slots are interpreted in.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ResolveSlot maps a civil date and a slot to its start and end instants.
// Only the year, month and day of date are used.
func (c *Calendar) ResolveSlot(date time.Time, slot Slot) (start, end time.Time, err error) {
	w, ok := slotWindows[slot]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown slot %q", slot)
	}
	if date.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("date is not set")
	}
	y, m, d := date.Date()
	start = time.Date(y, m, d, w.Start/60, w.Start%60, 0, 0, c.loc)
	end = time.Date(y, m, d, w.End/60, w.End%60, 0, 0, c.loc)
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %q does not resolve on %s", slot, FormatDate(date))
	}
	return start, end, nil
}

// Today returns the civil date of now in the calendar location.
func (c *Calendar) Today(now time.Time) time.Time {
	y, m, d := now.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
