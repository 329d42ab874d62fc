package email

import (
	"bytes"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"coffeemeet/internal/domain"
)

// buildMIME renders n as the raw RFC 5322 message SendRawEmail expects: the
// text body with an HTML alternative, then the attachments.
func buildMIME(from string, n *domain.Notification) ([]byte, error) {
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(n.Recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(n.Subject)

	switch {
	case n.TextBody != "" && n.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextPlain, n.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, n.HTMLBody)
	case n.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextHTML, n.HTMLBody)
	default:
		m.SetBodyString(gomail.TypeTextPlain, n.TextBody)
	}

	for _, att := range n.Attachments {
		err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			gomail.WithFileContentType(gomail.ContentType(att.MimeType)))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
