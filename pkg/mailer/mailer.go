package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text notification mail over SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	name string
}

// New creates a Mailer. An empty host disables sending; Send becomes a
// no-op so local setups work without an SMTP server.
func New(host string, port int, user, pass, fromAddress, fromName string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: fromAddress, name: fromName}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers one message to the given recipients.
func (m *Mailer) Send(to []string, subject, body string) error {
	if !m.Enabled() || len(to) == 0 {
		return nil
	}
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.name, m.from),
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
