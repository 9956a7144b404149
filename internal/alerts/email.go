// Package alerts delivers pipeline notifications over SMTP.
package alerts

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeshed/lakeshed/internal/config"
	"github.com/lakeshed/lakeshed/internal/logging"
)

// Mailer sends alert mail when enabled. A disabled mailer drops every
// message without connecting anywhere.
type Mailer struct {
	enabled  bool
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	log      zerolog.Logger

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a mailer from the alert settings.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		enabled:  cfg.SendEmailAlerts,
		host:     cfg.EmailSMTPHost,
		port:     cfg.EmailSMTPPort,
		username: cfg.EmailUsername,
		password: cfg.EmailPassword,
		from:     cfg.EmailFrom,
		to:       cfg.Recipients(),
		log:      logging.Component("alerts"),
		send:     smtp.SendMail,
	}
}

// Enabled reports whether messages will actually be sent.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// Send delivers one alert to every configured recipient.
func (m *Mailer) Send(subject, body string) error {
	if !m.enabled {
		m.log.Debug().Str("subject", subject).Msg("Alerts disabled, message dropped")
		return nil
	}
	if len(m.to) == 0 {
		return fmt.Errorf("no alert recipients configured")
	}

	// Anonymous relays are common in dev stacks, so auth is optional.
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	msg := buildMessage(m.from, m.to, subject, body)
	if err := m.send(addr, auth, m.from, m.to, msg); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	m.log.Info().
		Str("subject", subject).
		Int("recipients", len(m.to)).
		Msg("Alert sent")
	return nil
}

// buildMessage renders a plain-text mail with minimal headers.
func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
