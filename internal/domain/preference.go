package domain

import "context"

// PreferenceLookup answers whether a contact wants reminder emails.
type PreferenceLookup interface {
	WantsReminders(ctx context.Context, contact string) (bool, error)
}
