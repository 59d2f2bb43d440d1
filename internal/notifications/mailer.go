package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"crimewatch/internal/config"
)

// Mailer delivers one rendered message. The queue only depends on this
// interface; transport details stay behind it.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	addr      string
	auth      smtp.Auth
	fromEmail string
	fromName  string
}

// NewSMTPMailer builds a Mailer over plain SMTP with optional AUTH.
func NewSMTPMailer(cfg *config.SMTPConfig) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpMailer{
		addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:      auth,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.fromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(m.addr, m.auth, m.fromEmail, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}

	return nil
}
