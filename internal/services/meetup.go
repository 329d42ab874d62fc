package services

import (
	"fmt"
	"strings"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
)

// meetupEmail resolves the scheduled slot of inv and builds the email data
// with its calendar invite. inv must carry a schedule.
func meetupEmail(cal *calendar.Calendar, inv *domain.Invitation, venue *domain.Venue, now time.Time) (*domain.MeetupEmailData, error) {
	start, end, err := cal.ResolveSlot(inv.SelectedDate, inv.SelectedSlot)
	if err != nil {
		return nil, err
	}
	location := venue.Name
	if venue.Address != "" {
		location = venue.Name + ", " + venue.Address
	}
	artifact, err := calendar.BuildArtifact(calendar.Event{
		UID:         inv.ID + "@coffeemeet",
		Summary:     "Coffee at " + venue.Name,
		Description: fmt.Sprintf("Coffee meetup between %s and %s", inv.ProposerContact, inv.ResponderContact),
		Location:    location,
		Start:       start,
		End:         end,
		Stamp:       now,
	})
	if err != nil {
		return nil, err
	}
	return &domain.MeetupEmailData{
		Recipients:       parties(inv),
		Token:            inv.Token,
		ProposerContact:  inv.ProposerContact,
		ResponderContact: inv.ResponderContact,
		VenueName:        venue.Name,
		VenueAddress:     venue.Address,
		Date:             calendar.FormatDate(inv.SelectedDate),
		SlotLabel:        inv.SelectedSlot.Label(),
		Start:            start,
		End:              end,
		CalendarArtifact: artifact,
	}, nil
}

func parties(inv *domain.Invitation) []string {
	out := []string{inv.ProposerContact}
	if inv.ResponderContact != "" && !strings.EqualFold(inv.ResponderContact, inv.ProposerContact) {
		out = append(out, inv.ResponderContact)
	}
	return out
}
