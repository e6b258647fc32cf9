package tradebook

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends report emails over SMTP with implicit SSL.
type Mailer struct {
	SMTP SMTPConfig
}

// SendHTML sends an HTML body with optional image attachments.
func (m Mailer) SendHTML(subject, html string, attachments []string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.SMTP.From); err != nil {
		return fmt.Errorf("bad sender %q: %w", m.SMTP.From, err)
	}
	if err := msg.To(m.SMTP.To); err != nil {
		return fmt.Errorf("bad recipient %q: %w", m.SMTP.To, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	for _, a := range attachments {
		msg.AttachFile(a)
	}

	client, err := mail.NewClient(m.SMTP.Host,
		mail.WithPort(m.SMTP.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.SMTP.From),
		mail.WithPassword(m.SMTP.Password()),
	)
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", m.SMTP.Host, err)
	}
	return client.DialAndSend(msg)
}
