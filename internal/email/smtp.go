package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"invently_backend/internal/config"
)

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.Email.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

func (s *SMTPMailer) Send(msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Email.FromEmail)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUser,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
