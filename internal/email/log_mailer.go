package email

import (
	"invently_backend/internal/logger"
)

// LogMailer stands in for SMTP when no relay is configured. It logs
// recipient and subject only; bodies can carry reset secrets.
type LogMailer struct{}

func (LogMailer) Send(msg *Message) error {
	logger.Info("email suppressed (no smtp configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}
