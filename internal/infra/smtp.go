package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"shoppos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned when SMTP_HOST is not configured.
var ErrMailerDisabled = errors.New("mailer: SMTP not configured")

// Mailer sends receipt e-mails through a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig("smtp")),
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// BreakerState exposes the SMTP breaker for the health endpoint.
func (m *Mailer) BreakerState() CBState { return m.cb.State() }

// SendReceipt mails body to `to`, attaching the PDF at pdfPath when set.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	if !m.Enabled() {
		return ErrMailerDisabled
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error { return m.send(e, m.addr, auth) })
}
