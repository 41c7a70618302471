package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/auth"
	"invently_backend/internal/config"
	"invently_backend/internal/middleware"
	"invently_backend/internal/services"
	"invently_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	tokens      *auth.TokenManager
	cfg         *config.Config
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, tokens *auth.TokenManager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		tokens:      tokens,
		cfg:         cfg,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/logout", h.Logout)
		authGroup.GET("/status", h.LoginStatus)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.PUT("/reset-password/:resetToken", h.ResetPassword)

		authGroup.PATCH("/change-password", authRequired, h.ChangePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Register(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, response.Token)
	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, response.Token)
	c.JSON(http.StatusOK, response)
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; sessions are stateless.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Successful Logout"})
}

// LoginStatus answers a bare true/false and never 401s, so frontends
// can poll it without tripping error handling.
func (h *AuthHandler) LoginStatus(c *gin.Context) {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || cookie == "" {
		c.JSON(http.StatusOK, false)
		return
	}

	if _, err := h.tokens.Parse(cookie); err != nil {
		c.JSON(http.StatusOK, false)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	userID := middleware.GetUserID(c)

	if err := h.authService.ChangePassword(db, userID, req.OldPassword, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.RequestPasswordReset(db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reset email sent successfully",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	db := h.GetDB(c)
	secret := c.Param("resetToken")

	if err := h.authService.ResetPassword(db, secret, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.SessionCookieName,
		token,
		int(auth.SessionTTL.Seconds()),
		"/",
		"",
		h.secureCookies(),
		true, // httpOnly
	)
}

func (h *AuthHandler) secureCookies() bool {
	return h.cfg.Server.Env == "production"
}
