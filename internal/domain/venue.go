package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DayHours is the open/close wall-clock pair of one weekday, "HH:MM".
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OpeningHours maps lowercase weekday names to that day's hours. A missing
// day means the venue is closed.
type OpeningHours map[string]DayHours

// For returns the hours of weekday wd.
func (h OpeningHours) For(wd time.Weekday) (DayHours, bool) {
	if h == nil {
		return DayHours{}, false
	}
	d, ok := h[strings.ToLower(wd.String())]
	return d, ok
}

func (h OpeningHours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h)
}

func (h *OpeningHours) Scan(value any) error {
	if value == nil {
		*h = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("opening hours: type assertion to []byte failed")
	}
	return json.Unmarshal(b, h)
}

// Venue is the meeting place. It is owned by venue management and read-only here.
// swagger:model Venue
type Venue struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	OpeningHours OpeningHours `json:"opening_hours"`
}

// VenueRepository looks up venues by id.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*Venue, error)
}
