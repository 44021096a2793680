package mailer

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends transactional mail over SMTP
type Mailer struct {
	cfg Config
}

// New creates a new Mailer
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) client() (*mail.Client, error) {
	c, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SMTP client: %w", err)
	}
	return c, nil
}

// Send delivers a plain-text message to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	c, err := m.client()
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
