package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"coffeemeet/internal/calendar"
)

// InvitationStatus is the lifecycle state of an invitation. Transitions only
// move forward; accepted is terminal for confirmation.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusExpired   InvitationStatus = "expired"
	InvitationStatusCancelled InvitationStatus = "cancelled"
)

// ReminderTier identifies one of the two pre-meeting reminder windows.
type ReminderTier string

const (
	Reminder24h ReminderTier = "24h"
	Reminder1h  ReminderTier = "1h"
)

// SlotOption is one date/slot pair offered by the proposer.
// swagger:model SlotOption
type SlotOption struct {
	Date time.Time     `json:"-"`
	Slot calendar.Slot `json:"slot"`
}

type slotOptionJSON struct {
	Date string        `json:"date"`
	Slot calendar.Slot `json:"slot"`
}

func (o SlotOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(slotOptionJSON{Date: calendar.FormatDate(o.Date), Slot: o.Slot})
}

func (o *SlotOption) UnmarshalJSON(b []byte) error {
	var raw slotOptionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d, err := calendar.ParseDate(raw.Date)
	if err != nil {
		return err
	}
	o.Date = d
	o.Slot = raw.Slot
	return nil
}

// Matches reports whether the option is the given civil date and slot.
func (o SlotOption) Matches(date time.Time, slot calendar.Slot) bool {
	return calendar.FormatDate(o.Date) == calendar.FormatDate(date) && o.Slot == slot
}

// SlotOptions is stored as a JSONB column.
type SlotOptions []SlotOption

func (s SlotOptions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *SlotOptions) Scan(value any) error {
	if value == nil {
		*s = SlotOptions{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("slot options: type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}

// Invitation is a two-party coffee meetup proposal. Token is the external
// handle; ID never leaves the server.
// swagger:model Invitation
type Invitation struct {
	ID               string           `json:"-"`
	Token            string           `json:"token"`
	ProposerContact  string           `json:"proposer_contact"`
	ResponderContact string           `json:"responder_contact,omitempty"`
	VenueID          string           `json:"venue_id"`
	OfferedOptions   SlotOptions      `json:"offered_options"`
	SelectedDate     time.Time        `json:"-"`
	SelectedSlot     calendar.Slot    `json:"selected_slot,omitempty"`
	Status           InvitationStatus `json:"status"`
	RemindedAt24h    *time.Time       `json:"reminded_at_24h,omitempty"`
	RemindedAt1h     *time.Time       `json:"reminded_at_1h,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// MarshalJSON renders SelectedDate as a civil date.
func (inv Invitation) MarshalJSON() ([]byte, error) {
	type alias Invitation
	out := struct {
		alias
		SelectedDate string `json:"selected_date,omitempty"`
	}{alias: alias(inv)}
	if !inv.SelectedDate.IsZero() {
		out.SelectedDate = calendar.FormatDate(inv.SelectedDate)
	}
	return json.Marshal(out)
}

// HasSchedule reports whether a concrete date and slot are chosen.
func (inv *Invitation) HasSchedule() bool {
	return !inv.SelectedDate.IsZero() && inv.SelectedSlot.Valid()
}

// Offers reports whether date/slot is acceptable for confirmation. An
// invitation without offered options accepts any valid slot.
func (inv *Invitation) Offers(date time.Time, slot calendar.Slot) bool {
	if len(inv.OfferedOptions) == 0 {
		return true
	}
	for _, o := range inv.OfferedOptions {
		if o.Matches(date, slot) {
			return true
		}
	}
	return false
}

// Expired is the derived "expired" state: still pending and every offered
// option (or the preselected slot) has already started.
func (inv *Invitation) Expired(cal *calendar.Calendar, now time.Time) bool {
	if inv.Status != InvitationStatusPending {
		return false
	}
	options := inv.OfferedOptions
	if len(options) == 0 && inv.HasSchedule() {
		options = SlotOptions{{Date: inv.SelectedDate, Slot: inv.SelectedSlot}}
	}
	if len(options) == 0 {
		return false
	}
	for _, o := range options {
		start, _, err := cal.ResolveSlot(o.Date, o.Slot)
		if err != nil {
			continue
		}
		if !start.Before(now) {
			return false
		}
	}
	return true
}

// ReminderSent reports whether the reminder of the given tier was recorded.
func (inv *Invitation) ReminderSent(tier ReminderTier) bool {
	switch tier {
	case Reminder24h:
		return inv.RemindedAt24h != nil
	case Reminder1h:
		return inv.RemindedAt1h != nil
	}
	return false
}

// InvitationPatch lists the fields a conditional update may write. Nil
// pointers leave the stored value unchanged.
type InvitationPatch struct {
	Status           InvitationStatus
	ResponderContact *string
	SelectedDate     *time.Time
	SelectedSlot     *calendar.Slot
	UpdatedAt        time.Time
}

// InvitationRepository is the store adapter over invitation records. No
// method writes status or reminder flags unconditionally.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	ListByProposer(ctx context.Context, proposer string, page PaginationParams) ([]*Invitation, int, error)
	// ConditionalUpdate applies patch only while the stored status equals
	// expected; otherwise it returns a conflict error.
	ConditionalUpdate(ctx context.Context, token string, expected InvitationStatus, patch InvitationPatch) (*Invitation, error)
	// SetReminderFlagIfUnset sets the tier flag to now only if it is unset.
	// applied is false when another caller already set it.
	SetReminderFlagIfUnset(ctx context.Context, token string, tier ReminderTier, now time.Time) (applied bool, err error)
	// ScanAccepted returns accepted invitations whose meeting starts in
	// (now, now+horizon] and that still have an unset reminder flag.
	ScanAccepted(ctx context.Context, now time.Time, horizon time.Duration) ([]*Invitation, error)
}

// ProposeRequest is the input for creating an invitation.
type ProposeRequest struct {
	VenueID          string
	ResponderContact string
	Options          []SlotOption
}

// InvitationView is the responder-facing read model.
type InvitationView struct {
	Invitation *Invitation `json:"invitation"`
	Venue      *Venue      `json:"venue,omitempty"`
	Expired    bool        `json:"expired"`
}

// InvitationPage is one page of a proposer's invitations.
type InvitationPage struct {
	Items    []*Invitation `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// InvitationService covers the proposer side of the lifecycle.
type InvitationService interface {
	Propose(ctx context.Context, proposerContact string, req ProposeRequest) (*Invitation, error)
	Get(ctx context.Context, token string) (*InvitationView, error)
	ListMine(ctx context.Context, proposerContact string, page PaginationParams) (*InvitationPage, error)
}
