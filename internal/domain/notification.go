package domain

import (
	"context"
	"time"
)

// Attachment is a file sent along with a notification.
type Attachment struct {
	Filename string
	Content  []byte
	MimeType string
}

// Notification is one outbound message to one or more recipients.
type Notification struct {
	Recipients  []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// NotificationSender delivers notifications (infrastructure port). A failure
// never rolls back invitation state.
type NotificationSender interface {
	Send(ctx context.Context, n *Notification) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// MeetupEmailData is the template data shared by confirmation and reminder emails.
type MeetupEmailData struct {
	Recipients       []string
	Token            string
	ProposerContact  string
	ResponderContact string
	VenueName        string
	VenueAddress     string
	Date             string
	SlotLabel        string
	Start            time.Time
	End              time.Time
	Tier             ReminderTier
	CalendarArtifact []byte
}

// EmailService sends the domain-level meetup emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, data *MeetupEmailData) error
	SendReminder(ctx context.Context, data *MeetupEmailData) error
}

// NotificationRetryQueue schedules an out-of-band resend of a confirmation
// notice that failed after the invitation was accepted.
type NotificationRetryQueue interface {
	EnqueueConfirmationNotice(ctx context.Context, token string) error
}
