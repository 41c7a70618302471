package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/auth"
	"invently_backend/internal/logger"
	"invently_backend/internal/models"
	"invently_backend/internal/repositories"
	"invently_backend/pkg/apperrors"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "token"

const (
	userIDKey      = "userID"
	currentUserKey = "currentUser"
)

// AuthMiddleware is the identity gate. It resolves the session token
// into a user record or rejects the request. Missing token, bad token
// and deleted user all produce the same 401.
func AuthMiddleware(tokens *auth.TokenManager, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			reject(c)
			return
		}

		userID, err := tokens.Parse(tokenStr)
		if err != nil {
			reject(c)
			return
		}

		// The account may be gone even though the token still
		// verifies.
		db := GetDB(c)
		user, err := userRepo.FindByID(db, userID)
		if err != nil {
			reject(c)
			return
		}

		// Downstream code gets the user without the password hash.
		user.PasswordHash = ""
		c.Set(userIDKey, user.ID)
		c.Set(currentUserKey, user)

		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken prefers the session cookie and falls back to a Bearer
// header for non-browser clients.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func reject(c *gin.Context) {
	apperrors.HandleError(c, apperrors.NewUnauthorizedError("Not authorized, please login"))
	c.Abort()
}

// GetUserID returns the authenticated user's ID, or "" outside the
// auth middleware.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

// GetCurrentUser returns the authenticated user record, or nil.
func GetCurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}

	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}
