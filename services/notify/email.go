package notify

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/jordan-wright/email"
)

// Mailer is a fire-and-forget notification sender. Callers treat failures as
// non-fatal: settlement logs and swallows any error from Send.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail over SMTP.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailerFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS.
func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || port == "" || user == "" {
		return nil, fmt.Errorf("smtp configuration missing")
	}
	return &SMTPMailer{
		addr: host + ":" + port,
		from: user,
		auth: smtp.PlainAuth("", user, pass, host),
	}, nil
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	return e.Send(m.addr, m.auth)
}
