package services

import (
	"context"
	"fmt"
	"log/slog"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"
)

type emailService struct {
	sender   domain.NotificationSender
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders meetup templates and
// hands them to sender with the calendar invite attached.
func NewEmailService(sender domain.NotificationSender, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{sender: sender, renderer: renderer, logger: logger}
}

// NewLoginCodeMailer returns the sign-in code mailer over the same sender
// and templates.
func NewLoginCodeMailer(sender domain.NotificationSender, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.LoginCodeMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{sender: sender, renderer: renderer, logger: logger}
}

// SendLoginCode sends the "login_code" template to the requesting address.
func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login_code email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("login_code", data)
	if err != nil {
		return fmt.Errorf("failed to render login_code template: %w", err)
	}
	return s.sender.Send(ctx, &domain.Notification{
		Recipients: []string{data.Email},
		Subject:    subject,
		HTMLBody:   htmlBody,
		TextBody:   textBody,
	})
}

// SendConfirmation sends the "confirmation" template to both parties.
func (s *emailService) SendConfirmation(ctx context.Context, data *domain.MeetupEmailData) error {
	return s.send(ctx, "confirmation", data)
}

// SendReminder sends the "reminder" template to the opted-in recipients.
func (s *emailService) SendReminder(ctx context.Context, data *domain.MeetupEmailData) error {
	return s.send(ctx, "reminder", data)
}

func (s *emailService) send(ctx context.Context, templateName string, data *domain.MeetupEmailData) error {
	if data == nil {
		return fmt.Errorf("%s email data is nil", templateName)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	n := &domain.Notification{
		Recipients: data.Recipients,
		Subject:    subject,
		HTMLBody:   htmlBody,
		TextBody:   textBody,
	}
	if len(data.CalendarArtifact) > 0 {
		n.Attachments = append(n.Attachments, domain.Attachment{
			Filename: calendar.ArtifactFilename,
			Content:  data.CalendarArtifact,
			MimeType: calendar.ArtifactMimeType,
		})
	}
	if err := s.sender.Send(ctx, n); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.Info("meetup email sent", "template", templateName, "token", data.Token, "recipients", len(data.Recipients))
	return nil
}
