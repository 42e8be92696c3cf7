package infra

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/pweat/rejestr-prac/internal/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer wraps SMTP configuration for sending offers as PDF attachments.
// Every send goes through a circuit breaker so an unreachable SMTP server
// fails fast instead of holding requests.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig()),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendPDF sends body with the PDF attached as fileName.
func (m *Mailer) SendPDF(ctx context.Context, to, subject, body, fileName string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	if _, err := e.Attach(bytes.NewReader(pdf), fileName, "application/pdf"); err != nil {
		return fmt.Errorf("mailer: attach PDF: %w", err)
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	err := m.cb.ExecuteContext(ctx, func(context.Context) error { return m.send(e, m.addr, auth) })
	if err != nil {
		log.Warn().Err(err).Str("to", to).Str("breaker", m.cb.State().String()).Msg("offer e-mail failed")
		return err
	}
	return nil
}

// BreakerState reports the SMTP circuit breaker state for the health endpoint.
func (m *Mailer) BreakerState() CBState { return m.cb.State() }
