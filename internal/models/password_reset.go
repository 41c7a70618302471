package models

import "time"

// PasswordResetToken is the stored half of a reset secret. The
// plaintext secret is never persisted; TokenHash is its SHA-256.
// At most one live row exists per user: issuing a new token deletes
// the previous row first.
type PasswordResetToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// Expired reports whether the token is past its validity window. Rows
// can outlive their window physically; they are invalid regardless.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
