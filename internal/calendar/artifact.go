package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	ics "github.com/arran4/golang-ical"
)

const (
	productID = "-//coffeemeet//meetup//EN"

	// ArtifactFilename and ArtifactMimeType describe the attachment form.
	ArtifactFilename = "meetup.ics"
	ArtifactMimeType = "text/calendar; charset=utf-8; method=PUBLISH"
)

// Event is the single meeting rendered into a calendar artifact.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Stamp       time.Time
}

// BuildArtifact renders ev as a one-event iCalendar document with UTC times.
// Free text is sanitized first because the format is line oriented.
func BuildArtifact(ev Event) ([]byte, error) {
	if ev.UID == "" {
		return nil, errors.New("event uid is required")
	}
	if ev.Start.IsZero() || !ev.End.After(ev.Start) {
		return nil, fmt.Errorf("invalid event interval %s - %s", ev.Start, ev.End)
	}
	stamp := ev.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	event := cal.AddEvent(ev.UID)
	event.SetDtStampTime(stamp.UTC())
	event.SetStartAt(ev.Start.UTC())
	event.SetEndAt(ev.End.UTC())
	event.SetSummary(Sanitize(ev.Summary))
	if loc := Sanitize(ev.Location); loc != "" {
		event.SetLocation(loc)
	}
	if desc := Sanitize(ev.Description); desc != "" {
		event.SetDescription(desc)
	}

	return []byte(cal.Serialize()), nil
}

// ParseArtifactTimes reads back the start and end of the first event.
func ParseArtifactTimes(artifact []byte) (start, end time.Time, err error) {
	cal, err := ics.ParseCalendar(strings.NewReader(string(artifact)))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse calendar: %w", err)
	}
	events := cal.Events()
	if len(events) == 0 {
		return time.Time{}, time.Time{}, errors.New("calendar has no events")
	}
	start, err = events[0].GetStartAt()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("read DTSTART: %w", err)
	}
	end, err = events[0].GetEndAt()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("read DTEND: %w", err)
	}
	return start, end, nil
}

// Sanitize drops control characters and collapses runs of whitespace into a
// single space.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
