package domain

import (
	"context"
	"time"
)

// NotificationStatus reports what happened to the confirmation email.
type NotificationStatus string

const (
	NotificationSent           NotificationStatus = "sent"
	NotificationRetryScheduled NotificationStatus = "retry_scheduled"
	NotificationFailed         NotificationStatus = "failed"
)

// ConfirmRequest is the responder's choice.
type ConfirmRequest struct {
	Token            string
	ResponderContact string
	SelectedDate     string
	SelectedSlot     string
}

// ConfirmResult is returned once the pending to accepted transition has
// been applied, even when the notification could not be delivered.
type ConfirmResult struct {
	Invitation         *Invitation
	Venue              *Venue
	Start              time.Time
	End                time.Time
	CalendarArtifact   []byte
	NotificationStatus NotificationStatus
	NotificationError  error
}

// ConfirmationService performs the responder confirmation.
type ConfirmationService interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	// ResendConfirmation re-sends the notice for an accepted invitation.
	ResendConfirmation(ctx context.Context, token string) error
}
