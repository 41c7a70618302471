package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invently_backend/internal/models"
)

var ErrResetTokenNotFound = errors.New("reset token not found")

type PasswordResetRepository interface {
	// Replace removes any live token for the token's user and stores
	// the new one, as one atomic unit.
	Replace(db *gorm.DB, token *models.PasswordResetToken) error

	FindByUserID(db *gorm.DB, userID string) (*models.PasswordResetToken, error)

	// Consume atomically removes and returns the unexpired token
	// matching the hash.
	Consume(db *gorm.DB, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
}

type PasswordResetRepositoryImpl struct{}

func NewPasswordResetRepository() PasswordResetRepository {
	return &PasswordResetRepositoryImpl{}
}

// Replace runs delete-then-insert in a transaction so the
// one-live-token-per-user invariant holds even when a caller abandons
// the request mid-flight. Deleting nothing is fine: "no token" is
// always a valid start state.
func (r *PasswordResetRepositoryImpl) Replace(db *gorm.DB, token *models.PasswordResetToken) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *PasswordResetRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := db.First(&token, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Consume deletes by hash and expiry in a single DELETE .. RETURNING,
// so two concurrent redeems of the same secret cannot both succeed:
// the second one deletes zero rows and gets ErrResetTokenNotFound.
func (r *PasswordResetRepositoryImpl) Consume(db *gorm.DB, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	result := db.Clauses(clause.Returning{}).
		Where("token_hash = ? AND expires_at > ?", tokenHash, now).
		Delete(&token)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrResetTokenNotFound
	}
	return &token, nil
}
