package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"invently_backend/internal/auth"
	"invently_backend/internal/config"
	"invently_backend/internal/email"
	"invently_backend/internal/logger"
	"invently_backend/internal/models"
	"invently_backend/internal/repositories"
	"invently_backend/internal/services/dto"
	"invently_backend/pkg/apperrors"
)

// ResetTokenTTL is the validity window of a password-reset secret.
const ResetTokenTTL = 30 * time.Minute

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ChangePassword(db *gorm.DB, userID, oldPassword, newPassword string) error
	RequestPasswordReset(db *gorm.DB, emailAddr string) error
	ResetPassword(db *gorm.DB, secret, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	resetRepo repositories.PasswordResetRepository
	mailer    email.Mailer
	tokens    *auth.TokenManager
	cfg       *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	resetRepo repositories.PasswordResetRepository,
	mailer email.Mailer,
	tokens *auth.TokenManager,
	cfg *config.Config,
) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		mailer:    mailer,
		tokens:    tokens,
		cfg:       cfg,
	}
}

// Register creates the user with a freshly hashed password and logs
// them in immediately.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < 6 {
		return nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Photo:        req.Photo,
		Phone:        req.Phone,
	}
	if user.Photo == "" {
		user.Photo = models.DefaultPhoto
	}
	if user.Phone == "" {
		user.Phone = models.DefaultPhone
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password produce the same error.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// ChangePassword rotates the password for a logged-in user who knows
// their current one.
func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperrors.ErrWrongOldPassword
	}

	if len(newPassword) < 6 {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, userID, hashedPassword); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// RequestPasswordReset replaces any live reset token for the account
// with a fresh one and emails the reset link. The token is committed
// before the send, so a failed send leaves a redeemable token behind;
// the caller simply retries the request.
func (s *AuthServiceImpl) RequestPasswordReset(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(emailAddr))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			reveal := s.cfg.Auth.RevealUnknownEmail
			if reveal == nil || *reveal {
				return apperrors.ErrUserNotFound
			}
			// Privacy mode: pretend the email went out.
			return nil
		}
		return apperrors.InternalError(err)
	}

	secret, err := auth.NewResetSecret(user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	now := time.Now()
	token := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: auth.HashResetSecret(secret),
		ExpiresAt: now.Add(ResetTokenTTL),
	}
	token.CreatedAt = now

	// Replacing the previous token makes any earlier secret for this
	// user permanently unusable before the new one is handed out.
	if err := s.resetRepo.Replace(db, token); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.sendResetEmail(user, secret); err != nil {
		logger.Warn("reset email delivery failed", "user_id", user.ID, "error", err.Error())
		return apperrors.ErrEmailDelivery(err)
	}

	return nil
}

// ResetPassword redeems a reset secret. The consume is an atomic
// find-and-delete, so a secret can be redeemed once no matter how many
// callers race on it; every failure mode looks the same to the caller.
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, secret, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	token, err := s.resetRepo.Consume(db, auth.HashResetSecret(secret), time.Now())
	if err != nil {
		if apperrors.Is(err, repositories.ErrResetTokenNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, token.UserID, hashedPassword); err != nil {
		return apperrors.InternalError(err)
	}

	return nil
}

// normalizeEmail maps every case variant of a mailbox onto one stored
// form, so "A@X.com" and "a@x.com" are the same account.
func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}

func (s *AuthServiceImpl) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserDTO(user),
	}, nil
}

func (s *AuthServiceImpl) sendResetEmail(user *models.User, secret string) error {
	resetURL := fmt.Sprintf("%s/resetPassword/%s", s.cfg.Auth.FrontendURL, secret)

	body := fmt.Sprintf(`
		<h2>Hello %s</h2>
		<p>We received a request to reset your password.</p>
		<p>Please click on the link below to reset your password:</p>
		<a href="%s" target="_blank">Reset Password</a>
		<p>This link is valid for 30 minutes.</p>
		<p>If you did not request this, please ignore this email.</p>
		<p>Thank you!</p>
	`, user.Name, resetURL)

	return s.mailer.Send(&email.Message{
		To:      user.Email,
		ReplyTo: s.cfg.Email.FromEmail,
		Subject: "Password Reset Request",
		Body:    body,
	})
}
