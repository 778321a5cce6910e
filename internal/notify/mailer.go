package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/anchor-ministry/backend/config"
)

// Mailer sends notification emails over SMTP.
type Mailer struct {
	cfg config.EmailConfig
}

// NewMailer creates a mailer from SMTP settings. Returns nil when no SMTP
// host is configured, which callers treat as notifications disabled.
func NewMailer(cfg config.EmailConfig) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

// Send delivers one plain-text email to each recipient via BCC so addresses
// stay private.
func (m *Mailer) Send(recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", m.cfg.FromAddress)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
