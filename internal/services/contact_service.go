package services

import (
	"gorm.io/gorm"

	"invently_backend/internal/config"
	"invently_backend/internal/email"
	"invently_backend/internal/repositories"
	"invently_backend/internal/services/dto"
	"invently_backend/pkg/apperrors"
)

type ContactService interface {
	SendMessage(db *gorm.DB, userID string, req *dto.ContactRequest) error
}

type ContactServiceImpl struct {
	userRepo repositories.UserRepository
	mailer   email.Mailer
	cfg      *config.Config
}

func NewContactService(userRepo repositories.UserRepository, mailer email.Mailer, cfg *config.Config) ContactService {
	return &ContactServiceImpl{
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// SendMessage relays a contact-us message to the support inbox with
// reply-to pointing back at the sender.
func (s *ContactServiceImpl) SendMessage(db *gorm.DB, userID string, req *dto.ContactRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	to := s.cfg.Email.SupportEmail
	if to == "" {
		to = s.cfg.Email.FromEmail
	}

	msg := &email.Message{
		To:      to,
		ReplyTo: user.Email,
		Subject: req.Subject,
		Body:    req.Message,
	}

	if err := s.mailer.Send(msg); err != nil {
		return apperrors.ErrEmailDelivery(err)
	}
	return nil
}
