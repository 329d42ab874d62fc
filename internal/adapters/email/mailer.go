package email

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"coffeemeet/internal/domain"
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider       string
	FromAddress    string
	FromName       string
	SES            SESConfig
	SendGridAPIKey string
}

// NewMailer creates a sender from config. Provider "ses" uses AWS SES,
// "sendgrid" uses the SendGrid v3 API; "noop" or unknown only logs.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.NotificationSender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Provider {
	case "ses":
		sesConfig := config.SES
		if sesConfig.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES. Use only in development.")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: sesConfig.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: sesConfig.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					sesConfig.AccessKeyID,
					sesConfig.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesMailer{
			client: ses.NewFromConfig(awsCfg),
			from:   formatAddress(config.FromName, config.FromAddress),
			logger: logger,
		}, nil
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid api key is empty")
		}
		return &sendGridMailer{
			client:   sendgrid.NewSendClient(config.SendGridAPIKey),
			fromName: config.FromName,
			fromAddr: config.FromAddress,
			logger:   logger,
		}, nil
	case "noop":
		return &noopMailer{logger: logger}, nil
	default:
		logger.Warn("unknown email provider, using noop", "provider", config.Provider)
		return &noopMailer{logger: logger}, nil
	}
}

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

func validate(n *domain.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	if len(n.Recipients) == 0 {
		return fmt.Errorf("notification has no recipients")
	}
	return nil
}

type sesAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// sesMailer uses SendRawEmail because SendEmail cannot carry attachments.
type sesMailer struct {
	client sesAPI
	from   string
	logger *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, n *domain.Notification) error {
	if err := validate(n); err != nil {
		return err
	}
	raw, err := buildMIME(s.from, n)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	result, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(s.from),
		Destinations: n.Recipients,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.Info("email sent via SES", "message_id", aws.ToString(result.MessageId), "recipients", len(n.Recipients))
	return nil
}

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridMailer struct {
	client   sendGridAPI
	fromName string
	fromAddr string
	logger   *slog.Logger
}

func (s *sendGridMailer) Send(ctx context.Context, n *domain.Notification) error {
	if err := validate(n); err != nil {
		return err
	}
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.fromName, s.fromAddr))
	m.Subject = n.Subject

	p := mail.NewPersonalization()
	for _, to := range n.Recipients {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)

	if n.TextBody != "" {
		m.AddContent(mail.NewContent("text/plain", n.TextBody))
	}
	if n.HTMLBody != "" {
		m.AddContent(mail.NewContent("text/html", n.HTMLBody))
	}
	for _, att := range n.Attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		a.SetType(att.MimeType)
		a.SetFilename(att.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	response, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	s.logger.Info("email sent via sendgrid", "status", response.StatusCode, "recipients", len(n.Recipients))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, msg *domain.Notification) error {
	if err := validate(msg); err != nil {
		return err
	}
	n.logger.Info("email would be sent (noop)",
		"to", strings.Join(msg.Recipients, ","),
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}
